package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/store"
)

func TestParse(t *testing.T) {
	in := `studentid,Assignment1,ASSIGNMENT2,exam,Total,Grade
s1,20,20,45,85,HD
s2, 5,20,30,,
s3,0,0,0,,
s4,10,10,30,50,p
`
	recs, failed, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, recs, 4)

	assert.Equal(t, ParsedRecord{Line: 2, Record: marks.Record{StudentID: "s1", Assignment1: 20, Assignment2: 20, Exam: 45, Total: 85, Grade: "HD"}}, recs[0])
	assert.Equal(t, 55, recs[1].Record.Total, "blank total is the sum")
	assert.Equal(t, grading.GradePass, recs[1].Record.Grade, "blank grade is classified")
	assert.Equal(t, grading.GradeAbsentFail, recs[2].Record.Grade)
	assert.Equal(t, grading.GradePass, recs[3].Record.Grade, "grade is upper-cased")
}

func TestParse_ByteOrderMark(t *testing.T) {
	in := "\uFEFFStudentID,Assignment1,Assignment2,Exam\ns1,20,20,45\n"

	recs, failed, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, recs, 1)
	assert.Equal(t, "s1", recs[0].Record.StudentID)
	assert.Equal(t, 85, recs[0].Record.Total)
}

func TestParse_ColumnOrderAndOptionalColumns(t *testing.T) {
	in := "Exam,StudentID,Assignment2,Assignment1\n40,x9,20,20\n"

	recs, failed, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, recs, 1)
	assert.Equal(t, marks.Record{StudentID: "x9", Assignment1: 20, Assignment2: 20, Exam: 40, Total: 80, Grade: grading.GradeDistinction}, recs[0].Record)
}

func TestParse_RowErrors(t *testing.T) {
	in := `StudentID,Assignment1,Assignment2,Exam,Total,Grade
s1,ten,20,45,85,HD
,1,2,3,6,F
s3,1,2,3,6,Z
s4,1,2

s5,1,2,3,6,F
`
	recs, failed, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "s5", recs[0].Record.StudentID)

	require.Len(t, failed, 4)
	assert.Equal(t, 2, failed[0].Line)
	assert.Equal(t, "s1", failed[0].StudentID)
	assert.Contains(t, failed[0].Error(), `Assignment1: "ten" is not an integer`)
	assert.Contains(t, failed[1].Error(), "student ID is empty")
	assert.Contains(t, failed[2].Error(), `unknown grade "Z"`)
	assert.Contains(t, failed[3].Error(), "Exam is empty")
}

func TestParse_BadHeader(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", "missing header row"},
		{"missing exam", "StudentID,Assignment1,Assignment2\n", "missing column Exam"},
		{"duplicate", "StudentID,Exam,Assignment1,Assignment2,exam\n", "appears twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(strings.NewReader(tt.in))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func newImporter(t *testing.T) (*Importer, *marks.Repository) {
	t.Helper()
	db, err := store.Open(context.Background(), store.Config{Driver: store.DriverSQLite, DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := marks.NewRepository(db, nil)
	return New(repo, nil), repo
}

func TestImport(t *testing.T) {
	im, repo := newImporter(t)
	ctx := context.Background()
	in := `StudentID,Assignment1,Assignment2,Exam,Total,Grade
s1,20,20,45,,
s2,10,10,30,,
s1,1,1,1,,
bad,x,1,1,,
`
	res, err := im.Import(ctx, strings.NewReader(in), Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Read)
	assert.Equal(t, 2, res.Inserted)
	require.Len(t, res.Failed, 2)

	recs, err := repo.Select(ctx, marks.OpAll)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, grading.GradeHighDistinction, recs[0].Grade)
	assert.Equal(t, grading.GradePass, recs[1].Grade)
}

func TestImport_ValidateOnly(t *testing.T) {
	im, repo := newImporter(t)
	ctx := context.Background()

	res, err := im.Import(ctx, strings.NewReader("StudentID,Assignment1,Assignment2,Exam\ns1,1,2,3\n"), Options{ValidateOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Read)
	assert.Zero(t, res.Inserted)

	recs, err := repo.Select(ctx, marks.OpAll)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
