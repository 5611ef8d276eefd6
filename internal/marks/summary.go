package marks

import "github.com/markassist/markassist/internal/grading"

// Summary describes the grade distribution of a set of records.
type Summary struct {
	Count     int                   `json:"count"`
	MeanTotal float64               `json:"meanTotal"`
	ByGrade   map[grading.Grade]int `json:"byGrade"`
	// Stale counts records whose stored grade differs from what the
	// classifier would assign now.
	Stale int `json:"stale"`
}

// Summarize computes the distribution of recs. Grades outside the known set
// are counted under their stored label.
func Summarize(recs []Record) Summary {
	s := Summary{
		Count:   len(recs),
		ByGrade: make(map[grading.Grade]int, len(grading.AllGrades())),
	}
	for _, g := range grading.AllGrades() {
		s.ByGrade[g] = 0
	}
	if len(recs) == 0 {
		return s
	}

	sum := 0
	for _, r := range recs {
		sum += r.Total
		s.ByGrade[r.Grade]++
		if r.Classify() != r.Grade {
			s.Stale++
		}
	}
	s.MeanTotal = float64(sum) / float64(len(recs))
	return s
}
