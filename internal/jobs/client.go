package jobs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/sunil-gumatimath/react-router/common/logger"
	"github.com/sunil-gumatimath/react-router/internal/model"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// Source is the remote job data source the loaders read from.
type Source interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
	GetJob(ctx context.Context, id string) (*model.Job, error)
}

// StatusError is returned when the jobs API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jobs api: GET %s: status %d", e.URL, e.StatusCode)
}

type ClientConfig struct {
	BaseURL           string
	RequestsPerSecond float64 // 0 disables the limiter
	Burst             int
	HTTPClient        *http.Client
}

// Client talks to the jobs API over HTTP. It does not retry or cache; each
// call performs exactly one request bounded only by ctx.
type Client struct {
	baseURL *url.URL
	hc      *http.Client
	limiter *rate.Limiter
}

var _ Source = (*Client)(nil)

func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing jobs api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("jobs api url must be absolute: %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{baseURL: base, hc: hc, limiter: limiter}, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]model.Job, error) {
	body, err := c.get(ctx, "jobs.list", "jobs")
	if err != nil {
		return nil, err
	}
	return model.DecodeJobs(body)
}

// GetJob fetches one record. The id is not validated; it is escaped as a
// single path segment.
func (c *Client) GetJob(ctx context.Context, id string) (*model.Job, error) {
	body, err := c.get(ctx, "jobs.get", "jobs", id)
	if err != nil {
		return nil, err
	}
	return model.DecodeJob(body)
}

func (c *Client) endpoint(segments ...string) string {
	u := *c.baseURL
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = c.baseURL.Path + "/" + strings.Join(segments, "/")
	u.RawPath = c.baseURL.EscapedPath() + "/" + strings.Join(escaped, "/")
	return u.String()
}

func (c *Client) get(ctx context.Context, spanName string, segments ...string) ([]byte, error) {
	target := c.endpoint(segments...)

	sc := logger.StartSpan(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", target)),
	)
	defer sc.End()
	ctx = sc.Context()

	if err := c.limiter.Wait(ctx); err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("waiting for jobs api rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building jobs api request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.hc.Do(req)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("jobs api: GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	sc.Span().SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		slog.WarnContext(ctx, "jobs api returned non-success status",
			"url", target,
			"status", resp.StatusCode,
			"body", logger.Truncate(string(snippet), 200))
		statusErr := &StatusError{StatusCode: resp.StatusCode, URL: target}
		sc.RecordError(statusErr)
		return nil, statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("reading jobs api response: %w", err)
	}

	slog.DebugContext(ctx, "jobs api request completed", "url", target, "bytes", len(body))
	return body, nil
}
