// Package grading maps raw marks to letter grades.
package grading

// Classify returns the grade for a total and its component marks.
// Rules are evaluated top to bottom and the first match wins. The
// supplementary and absent-fail rules only apply below a pass.
func Classify(total, a1, a2, exam int) Grade {
	switch {
	case total >= 85:
		return GradeHighDistinction
	case total >= 75:
		return GradeDistinction
	case total >= 65:
		return GradeCredit
	case total >= 50:
		return GradePass
	}

	switch {
	case total >= 45 && a1 < 10 && a2 >= 15 && exam >= 25:
		return GradeSuppAssessment
	case total >= 45 && a2 < 15 && a1 >= 10 && exam >= 25:
		return GradeSuppAssessment
	case total >= 45 && a1 > 10 && a2 < 15 && exam < 25:
		return GradeSuppExam
	case a1 == 0 && a2 == 0 && exam == 0:
		return GradeAbsentFail
	default:
		return GradeFail
	}
}
