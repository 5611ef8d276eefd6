package marks

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/markassist/markassist/internal/grading"
)

// Workflow recomputes grades through a Repository.
type Workflow struct {
	repo   *Repository
	logger log.Logger
}

// NewWorkflow creates a workflow over repo. A nil logger discards output.
func NewWorkflow(repo *Repository, logger log.Logger) *Workflow {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Workflow{
		repo:   repo,
		logger: log.With(logger, "component", "workflow"),
	}
}

// Repository returns the repository the workflow writes through.
func (w *Workflow) Repository() *Repository {
	return w.repo
}

// RecomputeOne classifies rec's marks and writes the resulting grade. It
// returns the number of records changed and the new grade. Calling it twice
// with the same record yields the same results.
func (w *Workflow) RecomputeOne(ctx context.Context, rec Record) (int64, grading.Grade, error) {
	g := rec.Classify()
	n, err := w.repo.Command(ctx, OpRecomputeOneGrade, rec.WithGrade(g))
	if err != nil {
		return 0, "", err
	}
	level.Info(w.logger).Log("msg", "grade recomputed", "student", rec.StudentID, "old", rec.Grade, "new", g, "affected", n)
	return n, g, nil
}

// RecomputeAll recomputes and writes the grade of every record, then
// returns the re-fetched records. Writes are not atomic: if one fails the
// batch stops, earlier writes stay committed and the error is an *ErrBatch.
func (w *Workflow) RecomputeAll(ctx context.Context) ([]Record, error) {
	batch := uuid.NewString()
	logger := log.With(w.logger, "batch", batch)

	recs, err := w.repo.Run(ctx, All{})
	if err != nil {
		return nil, err
	}

	changed := 0
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return nil, &ErrBatch{Done: i, Total: len(recs), Err: err}
		}
		_, g, err := w.RecomputeOne(ctx, rec)
		if err != nil {
			level.Error(logger).Log("msg", "recompute aborted", "student", rec.StudentID, "done", i, "total", len(recs), "err", err)
			return nil, &ErrBatch{Done: i, Total: len(recs), Err: err}
		}
		if g != rec.Grade {
			changed++
		}
	}

	level.Info(logger).Log("msg", "recompute finished", "records", len(recs), "changed", changed)
	return w.repo.Run(ctx, All{})
}
