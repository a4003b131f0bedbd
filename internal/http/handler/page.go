package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sunil-gumatimath/react-router/internal/loader"
	"github.com/sunil-gumatimath/react-router/internal/navigation"
	"github.com/sunil-gumatimath/react-router/internal/render"
	"github.com/sunil-gumatimath/react-router/internal/route"
)

// statusClientClosedRequest is logged when the client goes away before the
// navigation settles. Nothing is written to the connection.
const statusClientClosedRequest = 499

const contentTypeHTML = "text/html; charset=utf-8"

type PageHandler struct {
	nav        *navigation.Navigator
	renderer   *render.Renderer
	showDetail bool
}

// NewPageHandler serves site pages. showDetail exposes error causes on the
// application error page and must be off in production.
func NewPageHandler(nav *navigation.Navigator, renderer *render.Renderer, showDetail bool) *PageHandler {
	return &PageHandler{
		nav:        nav,
		renderer:   renderer,
		showDetail: showDetail,
	}
}

// Serve handles every path the router does not claim. Each request is one
// navigation.
func (h *PageHandler) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Header("Allow", "GET, HEAD")
		c.String(http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx := c.Request.Context()

	out, err := h.nav.Navigate(ctx, c.Request.URL.EscapedPath())
	if err != nil {
		h.navigationError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Outcome(&buf, out); err != nil {
		slog.ErrorContext(ctx, "failed to render page", "error", err, "path", out.Path)
		h.appError(c, http.StatusInternalServerError, "Something went wrong", err)
		return
	}

	c.Header("X-Navigation-ID", strconv.FormatInt(out.ID, 10))
	c.Data(StatusFor(out), contentTypeHTML, buf.Bytes())
}

func (h *PageHandler) navigationError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		slog.DebugContext(ctx, "navigation discarded", "error", err, "path", c.Request.URL.Path)
		c.Abort()
		c.Status(statusClientClosedRequest)
	case errors.Is(err, route.ErrNoRoute):
		h.appError(c, http.StatusNotFound, "Page not found", err)
	default:
		slog.ErrorContext(ctx, "navigation failed", "error", err, "path", c.Request.URL.Path)
		h.appError(c, http.StatusInternalServerError, loader.UserMessage(err), err)
	}
}

func (h *PageHandler) appError(c *gin.Context, status int, message string, cause error) {
	data := render.AppErrorData{Message: message}
	if h.showDetail && cause != nil {
		data.Detail = loader.Detail(cause)
	}

	var buf bytes.Buffer
	if err := h.renderer.AppError(&buf, data); err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to render error page", "error", err)
		c.String(status, message)
		return
	}
	c.Data(status, contentTypeHTML, buf.Bytes())
}

// StatusFor maps a rendered outcome to its HTTP status. A boundary answers 404
// when the jobs API did, 502 for any other upstream failure.
func StatusFor(out *navigation.Outcome) int {
	switch {
	case out.Boundary():
		var failure *loader.FetchFailure
		if errors.As(out.Failure, &failure) && failure.NotFound() {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case out.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}
