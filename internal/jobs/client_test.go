package jobs_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sunil-gumatimath/react-router/internal/jobs"
	"github.com/sunil-gumatimath/react-router/internal/model"
)

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		requests atomic.Int32
		lastPath atomic.Value
		client   *jobs.Client
	)

	BeforeEach(func() {
		requests.Store(0)
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			lastPath.Store(r.URL.EscapedPath())
			handler(w, r)
		}))

		var err error
		client, err = jobs.NewClient(jobs.ClientConfig{BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("ListJobs", func() {
		It("decodes the collection from GET /jobs", func() {
			var accept atomic.Value
			handler = func(w http.ResponseWriter, r *http.Request) {
				accept.Store(r.Method + " " + r.Header.Get("Accept"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[{"id":1,"title":"Go Developer","salary":"100k","location":"Berlin"},{"id":"2","title":"SRE","salary":90000,"location":"Remote"}]`))
			}

			got, err := client.ListJobs(context.Background())

			Expect(err).NotTo(HaveOccurred())
			Expect(lastPath.Load()).To(Equal("/jobs"))
			Expect(accept.Load()).To(Equal("GET application/json"))
			Expect(got).To(Equal([]model.Job{
				{ID: "1", Title: "Go Developer", Salary: "100k", Location: "Berlin"},
				{ID: "2", Title: "SRE", Salary: "90000", Location: "Remote"},
			}))
		})

		It("returns a StatusError on non-2xx without retrying", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}

			_, err := client.ListJobs(context.Background())

			var statusErr *jobs.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.StatusCode).To(Equal(http.StatusServiceUnavailable))
			Expect(requests.Load()).To(Equal(int32(1)))
		})

		It("reports malformed payloads", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"jobs": []}`))
			}

			_, err := client.ListJobs(context.Background())

			Expect(err).To(MatchError(model.ErrMalformedJob))
		})
	})

	Describe("GetJob", func() {
		It("interpolates the id into the request path", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":42,"title":"Go Developer","salary":"100k","location":"Berlin"}`))
			}

			got, err := client.GetJob(context.Background(), "42")

			Expect(err).NotTo(HaveOccurred())
			Expect(lastPath.Load()).To(Equal("/jobs/42"))
			Expect(got.Title).To(Equal("Go Developer"))
		})

		It("escapes the id as a single path segment", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}

			_, err := client.GetJob(context.Background(), "a/b c")

			Expect(err).To(HaveOccurred())
			Expect(lastPath.Load()).To(Equal("/jobs/a%2Fb%20c"))
		})

		It("returns a StatusError for 404", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}

			_, err := client.GetJob(context.Background(), "999")

			var statusErr *jobs.StatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	It("surfaces transport failures", func() {
		server.Close()

		_, err := client.ListJobs(context.Background())

		Expect(err).To(HaveOccurred())
		var statusErr *jobs.StatusError
		Expect(errors.As(err, &statusErr)).To(BeFalse())
	})

	It("stops waiting when the context is cancelled", func() {
		release := make(chan struct{})
		handler = func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}
		defer close(release)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.ListJobs(ctx)

		Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
	})

	It("applies the configured rate limit", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}
		limited, err := jobs.NewClient(jobs.ClientConfig{
			BaseURL:           server.URL,
			RequestsPerSecond: 0.001,
			Burst:             1,
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = limited.ListJobs(context.Background())
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = limited.ListJobs(ctx)

		Expect(err).To(HaveOccurred())
		Expect(requests.Load()).To(Equal(int32(1)))
	})

	It("rejects relative base URLs", func() {
		_, err := jobs.NewClient(jobs.ClientConfig{BaseURL: "/api"})
		Expect(err).To(HaveOccurred())
	})
})
