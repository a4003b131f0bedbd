package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sunil-gumatimath/react-router/internal/http/middleware"
)

var _ = Describe("Middleware", func() {
	var (
		router   *gin.Engine
		logs     *bytes.Buffer
		previous *slog.Logger
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		logs = &bytes.Buffer{}
		previous = slog.Default()
		slog.SetDefault(slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

		router = gin.New()
		router.Use(middleware.Recovery())
		router.Use(middleware.Logger())
		router.GET("/panic", func(*gin.Context) { panic("boom") })
		router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })
	})

	AfterEach(func() {
		slog.SetDefault(previous)
	})

	It("turns a panic into a 500 and logs it", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(logs.String()).To(ContainSubstring(`"msg":"panic recovered"`))
		Expect(logs.String()).To(ContainSubstring(`"panic":"boom"`))
	})

	It("logs each request with its status", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(logs.String()).To(ContainSubstring(`"msg":"http request"`))
		Expect(logs.String()).To(ContainSubstring(`"path":"/ok"`))
		Expect(logs.String()).To(ContainSubstring(`"status":200`))
	})
})
