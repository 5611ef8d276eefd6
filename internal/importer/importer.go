// Package importer loads mark records from CSV files.
//
// The header row must name the columns StudentID, Assignment1, Assignment2,
// Exam, Total and Grade in any order and case. Total may be left blank and
// is then the sum of the three components; Grade may be left blank and is
// then assigned by the classifier.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/marks"
)

// Column names accepted in the header, compared case-insensitively.
const (
	ColStudentID   = "StudentID"
	ColAssignment1 = "Assignment1"
	ColAssignment2 = "Assignment2"
	ColExam        = "Exam"
	ColTotal       = "Total"
	ColGrade       = "Grade"
)

var required = []string{ColStudentID, ColAssignment1, ColAssignment2, ColExam}

// RowError describes a line that could not be imported.
type RowError struct {
	Line      int
	StudentID string
	Err       error
}

func (e *RowError) Error() string {
	if e.StudentID != "" {
		return fmt.Sprintf("line %d (%s): %v", e.Line, e.StudentID, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Result summarises one import.
type Result struct {
	Read     int
	Inserted int
	Failed   []*RowError
}

// Options controls an import.
type Options struct {
	// ValidateOnly parses and checks every row without writing.
	ValidateOnly bool
}

// Importer writes parsed records through a repository.
type Importer struct {
	repo   *marks.Repository
	logger log.Logger
}

// New creates an Importer. A nil logger discards output.
func New(repo *marks.Repository, logger log.Logger) *Importer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Importer{repo: repo, logger: log.With(logger, "component", "importer")}
}

// Import reads CSV from r and inserts each valid row. Bad rows and rows the
// store rejects (for example a duplicate student ID) are collected in
// Result.Failed and do not stop the import. A malformed header or a read
// error is returned as an error.
func (im *Importer) Import(ctx context.Context, r io.Reader, opts Options) (Result, error) {
	recs, failed, err := Parse(r)
	if err != nil {
		return Result{}, err
	}

	res := Result{Read: len(recs) + len(failed), Failed: failed}
	if opts.ValidateOnly {
		return res, nil
	}

	for _, pr := range recs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := im.repo.Command(ctx, marks.OpInsertRecord, pr.Record); err != nil {
			res.Failed = append(res.Failed, &RowError{Line: pr.Line, StudentID: pr.Record.StudentID, Err: err})
			continue
		}
		res.Inserted++
	}

	level.Info(im.logger).Log("msg", "import finished", "read", res.Read, "inserted", res.Inserted, "failed", len(res.Failed))
	return res, nil
}

// ParsedRecord is a record with the CSV line it came from.
type ParsedRecord struct {
	Line   int
	Record marks.Record
}

// Parse reads every row of r. Rows that fail to parse are returned as
// RowErrors alongside the good records.
func Parse(r io.Reader) ([]ParsedRecord, []*RowError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("empty CSV: missing header row")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		recs   []ParsedRecord
		failed []*RowError
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				failed = append(failed, &RowError{Line: perr.Line, Err: perr.Err})
				continue
			}
			return nil, nil, fmt.Errorf("read CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blank(row) {
			continue
		}

		rec, err := parseRow(row, idx)
		if err != nil {
			failed = append(failed, &RowError{Line: line, StudentID: field(row, idx, ColStudentID), Err: err})
			continue
		}
		recs = append(recs, ParsedRecord{Line: line, Record: rec})
	}
	return recs, failed, nil
}

func columnIndex(header []string) (map[string]int, error) {
	known := []string{ColStudentID, ColAssignment1, ColAssignment2, ColExam, ColTotal, ColGrade}
	idx := make(map[string]int, len(known))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		for _, k := range known {
			if strings.EqualFold(h, k) {
				if _, dup := idx[k]; dup {
					return nil, fmt.Errorf("header: column %s appears twice", k)
				}
				idx[k] = i
			}
		}
	}
	for _, k := range required {
		if _, ok := idx[k]; !ok {
			return nil, fmt.Errorf("header: missing column %s", k)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (marks.Record, error) {
	rec := marks.Record{StudentID: field(row, idx, ColStudentID)}
	if rec.StudentID == "" {
		return marks.Record{}, errors.New("student ID is empty")
	}

	ints := []struct {
		col string
		dst *int
	}{
		{ColAssignment1, &rec.Assignment1},
		{ColAssignment2, &rec.Assignment2},
		{ColExam, &rec.Exam},
	}
	for _, c := range ints {
		n, err := atoi(c.col, field(row, idx, c.col))
		if err != nil {
			return marks.Record{}, err
		}
		*c.dst = n
	}

	if s := field(row, idx, ColTotal); s != "" {
		n, err := atoi(ColTotal, s)
		if err != nil {
			return marks.Record{}, err
		}
		rec.Total = n
	} else {
		rec.Total = rec.Sum()
	}

	if g := grading.Grade(strings.ToUpper(field(row, idx, ColGrade))); g != "" {
		if !g.Valid() {
			return marks.Record{}, fmt.Errorf("unknown grade %q", g)
		}
		rec.Grade = g
	} else {
		rec.Grade = rec.Classify()
	}
	return rec, nil
}

func atoi(col, s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is empty", col)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", col, s)
	}
	return n, nil
}

// field returns the trimmed value of col, or "" when the column is absent
// or the row is short.
func field(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
