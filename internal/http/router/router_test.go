package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sunil-gumatimath/react-router/internal/http/handler"
	"github.com/sunil-gumatimath/react-router/internal/http/router"
	"github.com/sunil-gumatimath/react-router/internal/model"
	"github.com/sunil-gumatimath/react-router/internal/navigation"
	"github.com/sunil-gumatimath/react-router/internal/render"
	"github.com/sunil-gumatimath/react-router/internal/site"
)

type emptySource struct{}

func (emptySource) ListJobs(context.Context) ([]model.Job, error) { return []model.Job{}, nil }
func (emptySource) GetJob(context.Context, string) (*model.Job, error) {
	return &model.Job{ID: "1", Title: "Go Developer", Salary: "100k", Location: "Berlin"}, nil
}

var _ = Describe("SetupRoutes", func() {
	var engine *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		renderer, err := render.New()
		Expect(err).NotTo(HaveOccurred())
		tree, err := site.Routes(emptySource{})
		Expect(err).NotTo(HaveOccurred())

		engine = gin.New()
		router.SetupRoutes(engine, handler.NewPageHandler(navigation.New(tree), renderer, false))
	})

	serve := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	It("answers health checks", func() {
		w := serve(http.MethodGet, "/health")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"status":"ok"}`))
	})

	It("serves the embedded stylesheet", func() {
		w := serve(http.MethodGet, "/assets/site.css")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/css"))
		Expect(w.Body.String()).To(ContainSubstring(".navbar"))
	})

	It("hands every other path to the page handler", func() {
		w := serve(http.MethodGet, "/jobs/1")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Go Developer"))
	})

	It("rejects writes to page paths", func() {
		w := serve(http.MethodDelete, "/jobs/1")

		Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
	})
})
