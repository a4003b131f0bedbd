package loader

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sunil-gumatimath/react-router/common/logger"
	"github.com/sunil-gumatimath/react-router/internal/jobs"
	"github.com/sunil-gumatimath/react-router/internal/model"
	"github.com/sunil-gumatimath/react-router/internal/route"
)

// Jobs returns the collection loader: one request for the whole job list.
// The data handed to the page is a []model.Job.
func Jobs(src jobs.Source) route.LoaderFunc {
	return func(ctx context.Context, _ route.Params) (any, error) {
		ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "site.loader.jobs"})

		list, err := src.ListJobs(ctx)
		if err != nil {
			return nil, classify(ctx, MsgJobListNotFound, err)
		}

		slog.DebugContext(ctx, "job list loaded", "count", len(list))
		return list, nil
	}
}

// JobDetails returns the detail loader. It reads the "id" parameter and uses
// it verbatim; the data handed to the page is a *model.Job.
func JobDetails(src jobs.Source) route.LoaderFunc {
	return func(ctx context.Context, params route.Params) (any, error) {
		id := params["id"]
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			Component: "site.loader.job_details",
			JobID:     logger.Ptr(id),
		})

		job, err := src.GetJob(ctx, id)
		if err != nil {
			return nil, classify(ctx, MsgJobDetailsNotFound, err)
		}

		slog.DebugContext(ctx, "job details loaded", "title", job.Title)
		return job, nil
	}
}

// classify maps a source error onto the loader failure kinds. Cancellation is
// passed through untouched so an abandoned navigation is discarded rather
// than rendered as a failure.
func classify(ctx context.Context, message string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return ctxErr
	}

	if errors.Is(err, model.ErrMalformedJob) {
		slog.WarnContext(ctx, "jobs api returned a malformed payload", "error", err)
		return &MalformedPayloadError{Message: MsgMalformedPayload, Err: err}
	}

	slog.WarnContext(ctx, "loader fetch failed", "error", err)
	return newFetchFailure(message, err)
}
