package grading

// Grade is a letter grade label stored in the Grade column.
type Grade string

const (
	GradeHighDistinction Grade = "HD"
	GradeDistinction     Grade = "D"
	GradeCredit          Grade = "C"
	GradePass            Grade = "P"
	GradeSuppAssessment  Grade = "SA"
	GradeSuppExam        Grade = "SE"
	GradeAbsentFail      Grade = "AF"
	GradeFail            Grade = "F"
)

// Boundaries are the lowest totals of the HD, D, C and P bands, highest first.
var Boundaries = []int{85, 75, 65, 50}

// AllGrades returns every grade from highest to lowest.
func AllGrades() []Grade {
	return []Grade{
		GradeHighDistinction,
		GradeDistinction,
		GradeCredit,
		GradePass,
		GradeSuppAssessment,
		GradeSuppExam,
		GradeAbsentFail,
		GradeFail,
	}
}

// Valid reports whether g is one of the known grade labels.
func (g Grade) Valid() bool {
	for _, known := range AllGrades() {
		if g == known {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable label for the grade.
func (g Grade) DisplayName() string {
	switch g {
	case GradeHighDistinction:
		return "High Distinction"
	case GradeDistinction:
		return "Distinction"
	case GradeCredit:
		return "Credit"
	case GradePass:
		return "Pass"
	case GradeSuppAssessment:
		return "Supplementary Assessment"
	case GradeSuppExam:
		return "Supplementary Exam"
	case GradeAbsentFail:
		return "Absent Fail"
	case GradeFail:
		return "Fail"
	default:
		return string(g)
	}
}
