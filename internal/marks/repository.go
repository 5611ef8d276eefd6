package marks

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/markassist/markassist/internal/store"
)

// Store runs prepared statements by key. *store.DB satisfies it.
type Store interface {
	RunSelect(ctx context.Context, key store.Key, args ...any) ([]store.Row, error)
	RunCommand(ctx context.Context, key store.Key, args ...any) (int64, error)
}

// Repository dispatches typed selections and commands to a Store. It holds
// no connection state of its own.
type Repository struct {
	store  Store
	logger log.Logger
}

// NewRepository creates a repository over s. A nil logger discards output.
func NewRepository(s Store, logger log.Logger) *Repository {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Repository{
		store:  s,
		logger: log.With(logger, "component", "marks"),
	}
}

// Select parses params for op and runs the selection. The result is never
// nil; an empty slice means no record matched.
func (r *Repository) Select(ctx context.Context, op Operation, params ...string) ([]Record, error) {
	sel, err := ParseSelection(op, params...)
	if err != nil {
		return nil, err
	}
	recs, err := r.Run(ctx, sel)
	if err != nil {
		return nil, err
	}
	level.Debug(r.logger).Log("msg", "select", "op", op, "params", fmt.Sprint(params), "rows", len(recs))
	return recs, nil
}

// Run executes an already parsed selection.
func (r *Repository) Run(ctx context.Context, sel Selection) ([]Record, error) {
	var (
		rows []store.Row
		err  error
	)

	switch s := sel.(type) {
	case All:
		rows, err = r.store.RunSelect(ctx, store.KeyAll)
	case ByTolerance:
		rows, err = r.store.RunSelect(ctx, store.KeyByTolerance, s.Tolerance)
	case ByTotalRange:
		rows, err = r.store.RunSelect(ctx, store.KeyByTotalRange, s.Lo, s.Hi)
	case ByGrade:
		if s.Grade == "" {
			return nil, &ErrValidation{Op: OpByGrade, Reason: "grade must not be empty"}
		}
		rows, err = r.store.RunSelect(ctx, store.KeyByGrade, string(s.Grade))
	case ByAssignment1:
		rows, err = r.store.RunSelect(ctx, store.KeyByAssignment1, s.Mark)
	default:
		return nil, &ErrValidation{Reason: fmt.Sprintf("unsupported selection %T", sel)}
	}

	if err != nil {
		return nil, &ErrQuery{Op: sel.Operation(), Err: err}
	}
	return fromRows(rows), nil
}

// Command builds the command for op around rec and runs it. It returns the
// number of records changed; zero means no record has rec's student ID.
func (r *Repository) Command(ctx context.Context, op Operation, rec Record) (int64, error) {
	cmd, err := NewCommand(op, rec)
	if err != nil {
		return 0, err
	}
	return r.Exec(ctx, cmd)
}

// Exec runs an already built command.
func (r *Repository) Exec(ctx context.Context, cmd Command) (int64, error) {
	var (
		n   int64
		err error
	)

	switch c := cmd.(type) {
	case UpdateRecord:
		rec := c.Record
		n, err = r.store.RunCommand(ctx, store.KeyUpdateRecord,
			rec.StudentID, rec.Assignment1, rec.Assignment2, rec.Exam, rec.Total, string(rec.Grade))
	case InsertRecord:
		rec := c.Record
		n, err = r.store.RunCommand(ctx, store.KeyInsertRecord,
			rec.StudentID, rec.Assignment1, rec.Assignment2, rec.Exam, rec.Total, string(rec.Grade))
	case RecomputeOneGrade:
		rec := c.Record
		n, err = r.store.RunCommand(ctx, store.KeyUpdateGrade, rec.StudentID, string(rec.Classify()))
	default:
		return 0, &ErrValidation{Reason: fmt.Sprintf("unsupported command %T", cmd)}
	}

	if err != nil {
		return 0, &ErrQuery{Op: cmd.Operation(), Err: err}
	}
	level.Debug(r.logger).Log("msg", "command", "op", cmd.Operation(), "student", cmd.Target().StudentID, "affected", n)
	return n, nil
}
