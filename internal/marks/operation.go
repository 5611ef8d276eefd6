package marks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/markassist/markassist/internal/grading"
)

// Operation tags a supported query or command.
type Operation int

const (
	OpAll Operation = iota + 1
	OpByGrade
	OpByTotalRange
	OpByTolerance
	OpByAssignment1
	OpUpdateRecord
	OpInsertRecord
	OpRecomputeOneGrade
	OpRecomputeAllGrades
)

// Operations returns every operation in declaration order.
func Operations() []Operation {
	return []Operation{
		OpAll,
		OpByGrade,
		OpByTotalRange,
		OpByTolerance,
		OpByAssignment1,
		OpUpdateRecord,
		OpInsertRecord,
		OpRecomputeOneGrade,
		OpRecomputeAllGrades,
	}
}

func (o Operation) String() string {
	switch o {
	case OpAll:
		return "ALL"
	case OpByGrade:
		return "BY_GRADE"
	case OpByTotalRange:
		return "BY_TOTAL_RANGE"
	case OpByTolerance:
		return "BY_TOLERANCE"
	case OpByAssignment1:
		return "BY_ASSIGNMENT1"
	case OpUpdateRecord:
		return "UPDATE_RECORD"
	case OpInsertRecord:
		return "INSERT_RECORD"
	case OpRecomputeOneGrade:
		return "RECOMPUTE_ONE_GRADE"
	case OpRecomputeAllGrades:
		return "RECOMPUTE_ALL_GRADES"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// ParseOperation accepts an operation name in any case, with '-' or '_'
// separators, and with or without the "BY_" prefix for selections. "range"
// is short for BY_TOTAL_RANGE.
func ParseOperation(s string) (Operation, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	if norm == "RANGE" {
		return OpByTotalRange, nil
	}
	for _, op := range Operations() {
		name := op.String()
		if norm == name || (op.IsSelection() && "BY_"+norm == name) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// IsSelection reports whether o is accepted by Repository.Select.
func (o Operation) IsSelection() bool {
	switch o {
	case OpAll, OpByGrade, OpByTotalRange, OpByTolerance, OpByAssignment1:
		return true
	}
	return false
}

// IsCommand reports whether o is accepted by Repository.Command.
func (o Operation) IsCommand() bool {
	switch o {
	case OpUpdateRecord, OpInsertRecord, OpRecomputeOneGrade:
		return true
	}
	return false
}

// Arity returns the number of string parameters a selection takes. It is
// -1 for operations that are not selections.
func (o Operation) Arity() int {
	switch o {
	case OpAll:
		return 0
	case OpByGrade, OpByTolerance, OpByAssignment1:
		return 1
	case OpByTotalRange:
		return 2
	}
	return -1
}

// Selection is a parsed, typed query. The set of implementations is closed.
type Selection interface {
	Operation() Operation
	isSelection()
}

// All selects every record.
type All struct{}

// ByTolerance selects records whose total plus Tolerance lands exactly on a
// grade boundary.
type ByTolerance struct {
	Tolerance int
}

// ByTotalRange selects records with Lo <= total <= Hi.
type ByTotalRange struct {
	Lo, Hi int
}

// ByGrade selects records carrying Grade, lowest total first.
type ByGrade struct {
	Grade grading.Grade
}

// ByAssignment1 selects records with the given assignment 1 mark.
type ByAssignment1 struct {
	Mark int
}

func (All) Operation() Operation           { return OpAll }
func (ByTolerance) Operation() Operation   { return OpByTolerance }
func (ByTotalRange) Operation() Operation  { return OpByTotalRange }
func (ByGrade) Operation() Operation       { return OpByGrade }
func (ByAssignment1) Operation() Operation { return OpByAssignment1 }

func (All) isSelection()           {}
func (ByTolerance) isSelection()   {}
func (ByTotalRange) isSelection()  {}
func (ByGrade) isSelection()       {}
func (ByAssignment1) isSelection() {}

// ParseSelection checks params against op's arity and types and returns
// the typed selection.
func ParseSelection(op Operation, params ...string) (Selection, error) {
	if !op.IsSelection() {
		return nil, &ErrValidation{Op: op, Reason: "not a selection"}
	}
	if len(params) != op.Arity() {
		return nil, &ErrValidation{
			Op:     op,
			Reason: fmt.Sprintf("expected %d parameters, got %d", op.Arity(), len(params)),
		}
	}

	switch op {
	case OpAll:
		return All{}, nil

	case OpByTolerance:
		t, err := parseInt(op, "tolerance", params[0])
		if err != nil {
			return nil, err
		}
		return ByTolerance{Tolerance: t}, nil

	case OpByTotalRange:
		lo, err := parseInt(op, "range start", params[0])
		if err != nil {
			return nil, err
		}
		hi, err := parseInt(op, "range end", params[1])
		if err != nil {
			return nil, err
		}
		return ByTotalRange{Lo: lo, Hi: hi}, nil

	case OpByGrade:
		g := strings.TrimSpace(params[0])
		if g == "" {
			return nil, &ErrValidation{Op: op, Reason: "grade must not be empty"}
		}
		return ByGrade{Grade: grading.Grade(strings.ToUpper(g))}, nil

	case OpByAssignment1:
		m, err := parseInt(op, "assignment 1 mark", params[0])
		if err != nil {
			return nil, err
		}
		return ByAssignment1{Mark: m}, nil
	}

	return nil, &ErrValidation{Op: op, Reason: "not a selection"}
}

// Describe renders sel as its operation name followed by its parameters,
// e.g. "BY_TOTAL_RANGE 40 50".
func Describe(sel Selection) string {
	switch s := sel.(type) {
	case ByGrade:
		return fmt.Sprintf("%s %s", s.Operation(), s.Grade)
	case ByTotalRange:
		return fmt.Sprintf("%s %d %d", s.Operation(), s.Lo, s.Hi)
	case ByTolerance:
		return fmt.Sprintf("%s %d", s.Operation(), s.Tolerance)
	case ByAssignment1:
		return fmt.Sprintf("%s %d", s.Operation(), s.Mark)
	default:
		return sel.Operation().String()
	}
}

func parseInt(op Operation, name, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ErrValidation{Op: op, Reason: name + " must not be empty"}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ErrValidation{Op: op, Reason: name + " must be an integer", Err: err}
	}
	return n, nil
}

// Command is a typed write. The set of implementations is closed.
type Command interface {
	Operation() Operation
	Target() Record
	isCommand()
}

// UpdateRecord overwrites every non-key field of the record with the same
// student ID.
type UpdateRecord struct {
	Record Record
}

// InsertRecord adds a new record.
type InsertRecord struct {
	Record Record
}

// RecomputeOneGrade overwrites only the grade of the record with the same
// student ID, using the classifier on Record's marks.
type RecomputeOneGrade struct {
	Record Record
}

func (UpdateRecord) Operation() Operation      { return OpUpdateRecord }
func (InsertRecord) Operation() Operation      { return OpInsertRecord }
func (RecomputeOneGrade) Operation() Operation { return OpRecomputeOneGrade }

func (c UpdateRecord) Target() Record      { return c.Record }
func (c InsertRecord) Target() Record      { return c.Record }
func (c RecomputeOneGrade) Target() Record { return c.Record }

func (UpdateRecord) isCommand()      {}
func (InsertRecord) isCommand()      {}
func (RecomputeOneGrade) isCommand() {}

// NewCommand builds the typed command for op.
func NewCommand(op Operation, rec Record) (Command, error) {
	if !op.IsCommand() {
		return nil, &ErrValidation{Op: op, Reason: "not a command"}
	}
	if strings.TrimSpace(rec.StudentID) == "" {
		return nil, &ErrValidation{Op: op, Reason: "student ID must not be empty"}
	}

	switch op {
	case OpUpdateRecord:
		return UpdateRecord{Record: rec}, nil
	case OpInsertRecord:
		return InsertRecord{Record: rec}, nil
	case OpRecomputeOneGrade:
		return RecomputeOneGrade{Record: rec}, nil
	}
	return nil, &ErrValidation{Op: op, Reason: "not a command"}
}
