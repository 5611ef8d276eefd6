package marks

import (
	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/store"
)

// Record is one student's marks. It is a value: changing a field means
// building a new Record.
type Record struct {
	StudentID   string        `json:"studentId"`
	Assignment1 int           `json:"assignment1"`
	Assignment2 int           `json:"assignment2"`
	Exam        int           `json:"exam"`
	Total       int           `json:"total"`
	Grade       grading.Grade `json:"grade"`
}

// WithGrade returns a copy of r carrying grade g.
func (r Record) WithGrade(g grading.Grade) Record {
	r.Grade = g
	return r
}

// Sum returns assignment1 + assignment2 + exam. It may differ from Total
// when Total was entered by hand.
func (r Record) Sum() int {
	return r.Assignment1 + r.Assignment2 + r.Exam
}

// Classify returns the grade the classifier assigns to r's marks.
func (r Record) Classify() grading.Grade {
	return grading.Classify(r.Total, r.Assignment1, r.Assignment2, r.Exam)
}

func fromRow(row store.Row) Record {
	return Record{
		StudentID:   row.StudentID,
		Assignment1: row.Assignment1,
		Assignment2: row.Assignment2,
		Exam:        row.Exam,
		Total:       row.Total,
		Grade:       grading.Grade(row.Grade),
	}
}

func fromRows(rows []store.Row) []Record {
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out
}
