package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sunil-gumatimath/react-router/internal/http/handler"
	"github.com/sunil-gumatimath/react-router/internal/jobs"
	"github.com/sunil-gumatimath/react-router/internal/loader"
	"github.com/sunil-gumatimath/react-router/internal/model"
	"github.com/sunil-gumatimath/react-router/internal/navigation"
	"github.com/sunil-gumatimath/react-router/internal/render"
	"github.com/sunil-gumatimath/react-router/internal/route"
	"github.com/sunil-gumatimath/react-router/internal/site"
)

type mockSource struct {
	listFn func(ctx context.Context) ([]model.Job, error)
	getFn  func(ctx context.Context, id string) (*model.Job, error)
	calls  atomic.Int32
}

func (m *mockSource) ListJobs(ctx context.Context) ([]model.Job, error) {
	m.calls.Add(1)
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockSource) GetJob(ctx context.Context, id string) (*model.Job, error) {
	m.calls.Add(1)
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not configured")
}

var _ = Describe("PageHandler", func() {
	var (
		router   *gin.Engine
		src      *mockSource
		renderer *render.Renderer
	)

	newRouter := func(tree *route.Tree, showDetail bool) *gin.Engine {
		r := gin.New()
		h := handler.NewPageHandler(navigation.New(tree), renderer, showDetail)
		r.NoRoute(h.Serve)
		return r
	}

	serve := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	parse := func(w *httptest.ResponseRecorder) *goquery.Document {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
		Expect(err).NotTo(HaveOccurred())
		return doc
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		var err error
		renderer, err = render.New()
		Expect(err).NotTo(HaveOccurred())

		src = &mockSource{}
		tree, err := site.Routes(src)
		Expect(err).NotTo(HaveOccurred())
		router = newRouter(tree, false)
	})

	DescribeTable("static pages render with 200",
		func(path, selector string) {
			w := serve(http.MethodGet, path)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/html; charset=utf-8"))
			Expect(w.Header().Get("X-Navigation-ID")).NotTo(BeEmpty())
			Expect(parse(w).Find(selector).Length()).To(Equal(1))
			Expect(src.calls.Load()).To(BeZero())
		},
		Entry("home", "/", "main .home"),
		Entry("products", "/products", "main .products"),
		Entry("about", "/about", "main .about"),
		Entry("contact layout", "/contact", "main .contact-layout"),
		Entry("contact info", "/contact/info", ".contact-layout .contact-info"),
		Entry("contact form", "/contact/form", ".contact-layout .contact-form"),
	)

	It("lists jobs with links to their details", func() {
		src.listFn = func(context.Context) ([]model.Job, error) {
			return []model.Job{
				{ID: "1", Title: "Go Developer", Salary: "100k", Location: "Berlin"},
				{ID: "2", Title: "SRE", Salary: "90k", Location: "Remote"},
			}, nil
		}

		w := serve(http.MethodGet, "/jobs")

		Expect(w.Code).To(Equal(http.StatusOK))
		links := parse(w).Find(".jobs a")
		Expect(links.Length()).To(Equal(2))
		Expect(links.Eq(1).AttrOr("href", "")).To(Equal("/jobs/2"))
		Expect(src.calls.Load()).To(Equal(int32(1)))
	})

	It("renders job details for the id in the path", func() {
		var gotID string
		src.getFn = func(_ context.Context, id string) (*model.Job, error) {
			gotID = id
			return &model.Job{ID: "42", Title: "Go Developer", Salary: "100k", Location: "Berlin"}, nil
		}

		w := serve(http.MethodGet, "/jobs/42")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gotID).To(Equal("42"))
		doc := parse(w)
		Expect(doc.Find(".job-details .title").Text()).To(Equal("Go Developer"))
		Expect(doc.Find(".job-details .salary").Text()).To(Equal("100k"))
		Expect(doc.Find(".job-details .location").Text()).To(Equal("Berlin"))
	})

	It("answers 502 with the boundary when the list fetch fails", func() {
		src.listFn = func(context.Context) ([]model.Job, error) {
			return nil, &jobs.StatusError{StatusCode: http.StatusInternalServerError}
		}

		w := serve(http.MethodGet, "/jobs")

		Expect(w.Code).To(Equal(http.StatusBadGateway))
		doc := parse(w)
		Expect(doc.Find(".error-boundary h3").Text()).To(Equal("An Error occurred."))
		Expect(doc.Find(".error-boundary .message").Text()).To(Equal("Could not find job list"))
	})

	It("answers 404 with the boundary when the job does not exist", func() {
		src.getFn = func(context.Context, string) (*model.Job, error) {
			return nil, &jobs.StatusError{StatusCode: http.StatusNotFound}
		}

		w := serve(http.MethodGet, "/jobs/999")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(parse(w).Find(".error-boundary .message").Text()).To(Equal("Could not find job details"))
	})

	It("answers 404 with the not-found page for unknown paths", func() {
		w := serve(http.MethodGet, "/nonexistent")

		Expect(w.Code).To(Equal(http.StatusNotFound))
		doc := parse(w)
		Expect(doc.Find(".not-found h2").Text()).To(Equal("404 | Page not found"))
		Expect(doc.Find(".error-boundary").Length()).To(BeZero())
	})

	It("serves HEAD like GET", func() {
		w := serve(http.MethodHead, "/about")

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("rejects other methods", func() {
		w := serve(http.MethodPost, "/contact/form")

		Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
		Expect(w.Header().Get("Allow")).To(Equal("GET, HEAD"))
	})

	Context("without an error boundary", func() {
		BeforeEach(func() {
			tree, err := route.New(route.Root(site.PageRootLayout, route.WithChildren(
				route.Page("jobs", site.PageJobsLayout, route.WithChildren(
					route.IndexPage(site.PageJobs, route.WithLoader(loader.Jobs(src))),
				)),
			)))
			Expect(err).NotTo(HaveOccurred())
			router = newRouter(tree, true)
			src.listFn = func(context.Context) ([]model.Job, error) {
				return nil, errors.New("dial tcp: connection refused")
			}
		})

		It("renders the application error page with 500", func() {
			w := serve(http.MethodGet, "/jobs")

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			doc := parse(w)
			Expect(doc.Find(".app-error .message").Text()).To(Equal("Could not find job list"))
			Expect(doc.Find(".app-error pre").Text()).To(ContainSubstring("connection refused"))
		})

		It("answers 404 for paths nothing matches", func() {
			w := serve(http.MethodGet, "/elsewhere")

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(parse(w).Find(".app-error .message").Text()).To(Equal("Page not found"))
		})
	})

	It("writes nothing when the client has gone", func() {
		ctx, cancel := context.WithCancel(context.Background())
		src.listFn = func(ctx context.Context) ([]model.Job, error) {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/jobs", nil).WithContext(ctx)
		router.ServeHTTP(w, req)

		Expect(w.Body.Len()).To(BeZero())
	})
})

var _ = Describe("StatusFor", func() {
	frames := []navigation.Frame{{Page: site.PageRootLayout}}

	DescribeTable("maps outcomes to status codes",
		func(out *navigation.Outcome, want int) {
			Expect(handler.StatusFor(out)).To(Equal(want))
		},
		Entry("rendered", &navigation.Outcome{Frames: frames}, http.StatusOK),
		Entry("not found", &navigation.Outcome{Frames: frames, NotFound: true}, http.StatusNotFound),
		Entry("upstream 404", &navigation.Outcome{Frames: frames,
			Failure: &loader.FetchFailure{StatusCode: http.StatusNotFound}}, http.StatusNotFound),
		Entry("upstream 500", &navigation.Outcome{Frames: frames,
			Failure: &loader.FetchFailure{StatusCode: http.StatusInternalServerError}}, http.StatusBadGateway),
		Entry("transport failure", &navigation.Outcome{Frames: frames,
			Failure: &loader.FetchFailure{}}, http.StatusBadGateway),
		Entry("malformed payload", &navigation.Outcome{Frames: frames,
			Failure: &loader.MalformedPayloadError{}}, http.StatusBadGateway),
	)
})
