package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/sunil-gumatimath/react-router/common/id"
	"github.com/sunil-gumatimath/react-router/common/logger"
	"github.com/sunil-gumatimath/react-router/internal/route"
)

// LoaderError is returned by Navigate when a loader fails and no node between
// it and the root declares an error boundary.
type LoaderError struct {
	Route string
	Err   error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("loader %s: %v", e.Route, e.Err)
}

func (e *LoaderError) Unwrap() error {
	return e.Err
}

// Frame is one level of the rendered chain. Page is the node's own page, or
// its error page when the frame is the boundary that caught a failure.
type Frame struct {
	Node *route.Node
	Page string
	Data any
}

// Outcome is the result of one navigation, ready to render.
type Outcome struct {
	ID     int64
	Path   string
	Params route.Params
	Frames []Frame // root first

	// Failure is the loader error a boundary caught; FailedRoute is the pattern
	// of the node whose loader raised it.
	Failure     error
	FailedRoute string

	// NotFound is set when the wildcard route matched.
	NotFound bool
}

// Leaf is the innermost frame.
func (o *Outcome) Leaf() Frame {
	return o.Frames[len(o.Frames)-1]
}

// Boundary reports whether the outcome renders an error boundary.
func (o *Outcome) Boundary() bool {
	return o.Failure != nil
}

type Navigator struct {
	tree *route.Tree
}

func New(tree *route.Tree) *Navigator {
	return &Navigator{tree: tree}
}

func (n *Navigator) Tree() *route.Tree {
	return n.tree
}

// Navigate resolves path, runs the loaders of every matched node and applies
// error boundaries. route.ErrNoRoute is returned unchanged. When ctx is
// cancelled before the loaders settle, ctx.Err() is returned and nothing is
// rendered.
func (n *Navigator) Navigate(ctx context.Context, path string) (*Outcome, error) {
	navID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		NavigationID: logger.Ptr(navID),
		Component:    "site.navigation",
	})

	sc := logger.StartSpan(ctx, "navigate", trace.WithAttributes(
		attribute.Int64("navigation.id", navID),
		attribute.String("navigation.path", path),
	))
	defer sc.End()
	ctx = sc.Context()

	match, err := n.tree.Resolve(path)
	if err != nil {
		slog.DebugContext(ctx, "no route matches path", "path", path)
		return nil, err
	}

	pattern := match.Leaf().Pattern()
	sc.Span().SetName("navigate " + pattern)
	ctx = logger.WithLogFields(ctx, logger.LogFields{Route: logger.Ptr(pattern)})

	start := time.Now()
	results := runLoaders(ctx, match)
	if ctxErr := ctx.Err(); ctxErr != nil {
		slog.DebugContext(ctx, "navigation abandoned", "error", ctxErr)
		return nil, ctxErr
	}

	out := &Outcome{
		ID:       navID,
		Path:     match.Path,
		Params:   match.Params,
		NotFound: match.Leaf().Kind() == route.KindWildcard,
	}

	failedAt := shallowestFailure(results)
	if failedAt < 0 {
		out.Frames = make([]Frame, len(match.Chain))
		for i, node := range match.Chain {
			out.Frames[i] = Frame{Node: node, Page: node.Page, Data: results[i].data}
		}
		slog.InfoContext(ctx, "navigation complete",
			"path", match.Path,
			"duration_ms", time.Since(start).Milliseconds())
		return out, nil
	}

	failed := match.Chain[failedAt]
	failure := results[failedAt].err
	sc.RecordError(failure)

	boundaryAt := nearestBoundary(match.Chain, failedAt)
	if boundaryAt < 0 {
		slog.ErrorContext(ctx, "loader failed without an error boundary",
			"failed_route", failed.Pattern(),
			"error", failure)
		return nil, &LoaderError{Route: failed.Pattern(), Err: failure}
	}

	boundary := match.Chain[boundaryAt]
	out.Failure = failure
	out.FailedRoute = failed.Pattern()
	out.NotFound = false
	out.Frames = make([]Frame, boundaryAt+1)
	for i := 0; i < boundaryAt; i++ {
		node := match.Chain[i]
		out.Frames[i] = Frame{Node: node, Page: node.Page, Data: results[i].data}
	}
	out.Frames[boundaryAt] = Frame{Node: boundary, Page: boundary.ErrorPage}

	slog.WarnContext(ctx, "error boundary rendered",
		"failed_route", failed.Pattern(),
		"boundary_route", boundary.Pattern(),
		"error", failure)
	return out, nil
}

type loadResult struct {
	data any
	err  error
	// induced marks errors caused by this navigation cancelling the loader
	induced bool
}

// runLoaders runs the loader of every node in the chain concurrently. A
// failure cancels the loaders whose output its boundary would discard; a
// failure no boundary catches cancels all of them.
func runLoaders(ctx context.Context, match *route.Match) []loadResult {
	results := make([]loadResult, len(match.Chain))
	g, gctx := errgroup.WithContext(ctx)

	ctxs := make([]context.Context, len(match.Chain))
	cancels := make([]context.CancelFunc, len(match.Chain))
	for i, node := range match.Chain {
		if node.Loader != nil {
			ctxs[i], cancels[i] = context.WithCancel(gctx)
		}
	}
	cancelFrom := func(depth int) {
		for i, node := range match.Chain {
			if node.Depth() >= depth && cancels[i] != nil {
				cancels[i]()
			}
		}
	}

	for i, node := range match.Chain {
		if node.Loader == nil {
			continue
		}

		lctx, cancel := ctxs[i], cancels[i]
		params := maps.Clone(match.Params)
		g.Go(func() error {
			defer cancel()

			sc := logger.StartSpan(lctx, "loader "+node.Pattern())
			defer sc.End()

			data, err := node.Loader(sc.Context(), params)
			if err != nil {
				induced := lctx.Err() != nil &&
					(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
				results[i] = loadResult{err: err, induced: induced}
				if induced {
					return nil
				}
				sc.RecordError(err)

				if b := nearestBoundary(match.Chain, i); b >= 0 {
					cancelFrom(match.Chain[b].Depth())
					return nil
				}
				return err
			}
			results[i] = loadResult{data: data}
			return nil
		})
	}

	// the unhandled failure Wait reports is also recorded in results
	_ = g.Wait()
	return results
}

func shallowestFailure(results []loadResult) int {
	for i, r := range results {
		if r.err != nil && !r.induced {
			return i
		}
	}
	return -1
}

// nearestBoundary searches from chain[from] toward the root, the node itself
// included.
func nearestBoundary(chain []*route.Node, from int) int {
	for i := from; i >= 0; i-- {
		if chain[i].HasErrorBoundary() {
			return i
		}
	}
	return -1
}
