package marks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markassist/markassist/internal/grading"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in   string
		want Operation
	}{
		{"ALL", OpAll},
		{"all", OpAll},
		{"by_grade", OpByGrade},
		{"grade", OpByGrade},
		{"total-range", OpByTotalRange},
		{"range", OpByTotalRange},
		{"BY-TOLERANCE", OpByTolerance},
		{"assignment1", OpByAssignment1},
		{"update_record", OpUpdateRecord},
		{"recompute-all-grades", OpRecomputeAllGrades},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOperation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseOperation("by_student")
	assert.Error(t, err)
}

func TestOperation_Kinds(t *testing.T) {
	for _, op := range Operations() {
		if op == OpRecomputeAllGrades {
			assert.False(t, op.IsSelection() || op.IsCommand(), op.String())
			continue
		}
		assert.NotEqual(t, op.IsSelection(), op.IsCommand(), op.String())
		if op.IsSelection() {
			assert.GreaterOrEqual(t, op.Arity(), 0, op.String())
		} else {
			assert.Equal(t, -1, op.Arity(), op.String())
		}
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name   string
		op     Operation
		params []string
		want   Selection
	}{
		{"all", OpAll, nil, All{}},
		{"tolerance", OpByTolerance, []string{"3"}, ByTolerance{Tolerance: 3}},
		{"tolerance spaces", OpByTolerance, []string{" 2 "}, ByTolerance{Tolerance: 2}},
		{"range", OpByTotalRange, []string{"40", "60"}, ByTotalRange{Lo: 40, Hi: 60}},
		{"grade upper-cased", OpByGrade, []string{"hd"}, ByGrade{Grade: grading.GradeHighDistinction}},
		{"assignment1", OpByAssignment1, []string{"10"}, ByAssignment1{Mark: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(tt.op, tt.params...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.op, got.Operation())
		})
	}
}

func TestParseSelection_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		op     Operation
		params []string
		reason string
	}{
		{"all with param", OpAll, []string{"x"}, "expected 0 parameters, got 1"},
		{"range missing hi", OpByTotalRange, []string{"40"}, "expected 2 parameters, got 1"},
		{"tolerance not int", OpByTolerance, []string{"abc"}, "tolerance must be an integer"},
		{"tolerance empty", OpByTolerance, []string{""}, "tolerance must not be empty"},
		{"range hi not int", OpByTotalRange, []string{"1", "x"}, "range end must be an integer"},
		{"grade blank", OpByGrade, []string{"  "}, "grade must not be empty"},
		{"command", OpUpdateRecord, nil, "not a selection"},
		{"batch", OpRecomputeAllGrades, nil, "not a selection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSelection(tt.op, tt.params...)
			var verr *ErrValidation
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.op, verr.Op)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestNewCommand(t *testing.T) {
	rec := Record{StudentID: "s1", Assignment1: 10, Assignment2: 10, Exam: 30, Total: 50}

	cmd, err := NewCommand(OpUpdateRecord, rec)
	require.NoError(t, err)
	assert.Equal(t, UpdateRecord{Record: rec}, cmd)
	assert.Equal(t, rec, cmd.Target())

	cmd, err = NewCommand(OpRecomputeOneGrade, rec)
	require.NoError(t, err)
	assert.Equal(t, OpRecomputeOneGrade, cmd.Operation())

	_, err = NewCommand(OpAll, rec)
	var verr *ErrValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "not a command", verr.Reason)

	_, err = NewCommand(OpInsertRecord, Record{})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "student ID must not be empty", verr.Reason)
}

func TestErrValidation_Message(t *testing.T) {
	err := &ErrValidation{Op: OpByTolerance, Reason: "tolerance must be an integer", Err: errors.New("bad")}
	assert.Equal(t, "BY_TOLERANCE: tolerance must be an integer: bad", err.Error())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		sel  Selection
		want string
	}{
		{All{}, "ALL"},
		{ByGrade{Grade: grading.GradeCredit}, "BY_GRADE C"},
		{ByTotalRange{Lo: 40, Hi: 50}, "BY_TOTAL_RANGE 40 50"},
		{ByTolerance{Tolerance: 2}, "BY_TOLERANCE 2"},
		{ByAssignment1{Mark: 5}, "BY_ASSIGNMENT1 5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.sel))
	}
}
