package store

import (
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Key identifies one prepared statement.
type Key int

const (
	KeyAll Key = iota
	KeyByTolerance
	KeyByTotalRange
	KeyByGrade
	KeyByAssignment1
	KeyUpdateRecord
	KeyUpdateGrade
	KeyInsertRecord
)

// Keys returns every statement key.
func Keys() []Key {
	return []Key{
		KeyAll,
		KeyByTolerance,
		KeyByTotalRange,
		KeyByGrade,
		KeyByAssignment1,
		KeyUpdateRecord,
		KeyUpdateGrade,
		KeyInsertRecord,
	}
}

func (k Key) String() string {
	switch k {
	case KeyAll:
		return "all"
	case KeyByTolerance:
		return "by-tolerance"
	case KeyByTotalRange:
		return "by-total-range"
	case KeyByGrade:
		return "by-grade"
	case KeyByAssignment1:
		return "by-assignment1"
	case KeyUpdateRecord:
		return "update-record"
	case KeyUpdateGrade:
		return "update-grade"
	case KeyInsertRecord:
		return "insert-record"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// Table and column names of the marks table.
const (
	Table = "marks"

	ColStudentID   = "student_id"
	ColAssignment1 = "assignment1"
	ColAssignment2 = "assignment2"
	ColExam        = "exam"
	ColTotal       = "total"
	ColGrade       = "grade"
)

var columns = []string{ColStudentID, ColAssignment1, ColAssignment2, ColExam, ColTotal, ColGrade}

// boundaries are the totals a tolerance query lands on, in placeholder order.
var boundaries = []int{85, 75, 65, 50}

type statementKind int

const (
	kindQuery statementKind = iota
	kindExec
)

// statement is the rendered SQL for a Key plus how caller arguments map onto
// its placeholders. A nil bind passes arguments through unchanged.
type statement struct {
	kind  statementKind
	query string
	bind  func(args []any) ([]any, error)
	arity int
}

func (s statement) args(args []any) ([]any, error) {
	if len(args) != s.arity {
		return nil, fmt.Errorf("expected %d arguments, got %d", s.arity, len(args))
	}
	if s.bind == nil {
		return args, nil
	}
	return s.bind(args)
}

// render builds the SQL for key in the given ent dialect. Placeholder values
// passed to the builders only fix the placeholder positions; the rendered
// arguments are discarded.
func render(d string, key Key) (statement, error) {
	b := entsql.Dialect(d)

	selectAll := func() *entsql.Selector {
		return b.Select(columns...).From(b.Table(Table))
	}

	switch key {
	case KeyAll:
		q, _ := selectAll().OrderBy(ColStudentID).Query()
		return statement{kind: kindQuery, query: q}, nil

	case KeyByTolerance:
		q, _ := selectAll().
			Where(entsql.In(ColTotal, 0, 0, 0, 0)).
			OrderBy(ColStudentID).
			Query()
		return statement{kind: kindQuery, query: q, arity: 1, bind: bindTolerance}, nil

	case KeyByTotalRange:
		q, _ := selectAll().
			Where(entsql.And(entsql.GTE(ColTotal, 0), entsql.LTE(ColTotal, 0))).
			OrderBy(ColStudentID).
			Query()
		return statement{kind: kindQuery, query: q, arity: 2}, nil

	case KeyByGrade:
		q, _ := selectAll().
			Where(entsql.EQ(ColGrade, "")).
			OrderBy(ColTotal, ColStudentID).
			Query()
		return statement{kind: kindQuery, query: q, arity: 1}, nil

	case KeyByAssignment1:
		q, _ := selectAll().
			Where(entsql.EQ(ColAssignment1, 0)).
			OrderBy(ColStudentID).
			Query()
		return statement{kind: kindQuery, query: q, arity: 1}, nil

	case KeyUpdateRecord:
		q, _ := b.Update(Table).
			Set(ColAssignment1, 0).
			Set(ColAssignment2, 0).
			Set(ColExam, 0).
			Set(ColTotal, 0).
			Set(ColGrade, "").
			Where(entsql.EQ(ColStudentID, "")).
			Query()
		// Caller order is (id, a1, a2, exam, total, grade); the key comes last in SQL.
		return statement{kind: kindExec, query: q, arity: 6, bind: moveFirstToLast}, nil

	case KeyUpdateGrade:
		q, _ := b.Update(Table).
			Set(ColGrade, "").
			Where(entsql.EQ(ColStudentID, "")).
			Query()
		return statement{kind: kindExec, query: q, arity: 2, bind: moveFirstToLast}, nil

	case KeyInsertRecord:
		q, _ := b.Insert(Table).
			Columns(columns...).
			Values("", 0, 0, 0, 0, "").
			Query()
		return statement{kind: kindExec, query: q, arity: 6}, nil
	}

	return statement{}, fmt.Errorf("no statement for %s", key)
}

// createTable renders the bootstrap DDL for the marks table.
func createTable(d string) string {
	return entsql.Dialect(d).String(func(b *entsql.Builder) {
		b.WriteString("CREATE TABLE IF NOT EXISTS ").Ident(Table).Pad().Wrap(func(b *entsql.Builder) {
			b.Ident(ColStudentID).WriteString(" TEXT NOT NULL").Comma()
			for _, c := range []string{ColAssignment1, ColAssignment2, ColExam, ColTotal} {
				b.Ident(c).WriteString(" INTEGER NOT NULL DEFAULT 0").Comma()
			}
			b.Ident(ColGrade).WriteString(" TEXT NOT NULL DEFAULT ''").Comma()
			b.WriteString("PRIMARY KEY ").Wrap(func(b *entsql.Builder) {
				b.Ident(ColStudentID)
			})
		})
	})
}

// bindTolerance turns a tolerance t into the four totals that reach a
// boundary when t is added.
func bindTolerance(args []any) ([]any, error) {
	t, ok := args[0].(int)
	if !ok {
		return nil, fmt.Errorf("tolerance must be int, got %T", args[0])
	}
	out := make([]any, len(boundaries))
	for i, b := range boundaries {
		out[i] = b - t
	}
	return out, nil
}

func moveFirstToLast(args []any) ([]any, error) {
	out := make([]any, 0, len(args))
	out = append(out, args[1:]...)
	return append(out, args[0]), nil
}

// dialectFor maps a driver to the ent SQL dialect.
func dialectFor(d Driver) string {
	switch d {
	case DriverPostgres, DriverPgx:
		return dialect.Postgres
	default:
		return dialect.SQLite
	}
}
