package grading

import "testing"

func TestClassify_Bands(t *testing.T) {
	tests := []struct {
		total int
		want  Grade
	}{
		{100, GradeHighDistinction},
		{85, GradeHighDistinction},
		{84, GradeDistinction},
		{75, GradeDistinction},
		{74, GradeCredit},
		{65, GradeCredit},
		{64, GradePass},
		{50, GradePass},
	}

	for _, tt := range tests {
		// Component marks must not matter at or above a pass.
		for _, parts := range [][3]int{{0, 0, 0}, {5, 5, 5}, {40, 40, 40}} {
			got := Classify(tt.total, parts[0], parts[1], parts[2])
			if got != tt.want {
				t.Errorf("Classify(%d, %v) = %q, want %q", tt.total, parts, got, tt.want)
			}
		}
	}
}

func TestClassify_BelowPass(t *testing.T) {
	tests := []struct {
		name                string
		total, a1, a2, exam int
		want                Grade
	}{
		{"weak assignment1", 45, 5, 15, 25, GradeSuppAssessment},
		{"weak assignment2", 49, 10, 14, 25, GradeSuppAssessment},
		{"weak exam", 45, 11, 10, 20, GradeSuppExam},
		{"assignment1 exactly 10 is not SE", 45, 10, 10, 20, GradeFail},
		{"absent", 0, 0, 0, 0, GradeAbsentFail},
		{"nothing applies", 40, 5, 5, 5, GradeFail},
		{"supplementary rules need 45", 44, 5, 15, 25, GradeFail},
		{"SE needs 45", 30, 15, 10, 10, GradeFail},
		{"SA rule b needs 45", 40, 15, 10, 30, GradeFail},
		{"49 falls through", 49, 20, 20, 9, GradeFail},
		{"absent wins over 45 floor", 0, 0, 0, 0, GradeAbsentFail},
		{"absent with stale total", 47, 0, 0, 0, GradeAbsentFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.total, tt.a1, tt.a2, tt.exam)
			if got != tt.want {
				t.Errorf("Classify(%d, %d, %d, %d) = %q, want %q",
					tt.total, tt.a1, tt.a2, tt.exam, got, tt.want)
			}
		})
	}
}

func TestClassify_RuleOrder(t *testing.T) {
	// Satisfies both SA rule (a) and nothing else; (a) is checked before (d).
	if got := Classify(45, 0, 15, 30); got != GradeSuppAssessment {
		t.Errorf("got %q, want SA", got)
	}
	// Exam of 25 with a weak assignment2 is SA, not SE.
	if got := Classify(46, 11, 10, 25); got != GradeSuppAssessment {
		t.Errorf("got %q, want SA", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for total := -10; total <= 110; total++ {
		a := Classify(total, 10, 15, 25)
		b := Classify(total, 10, 15, 25)
		if a != b {
			t.Fatalf("Classify(%d) not deterministic: %q vs %q", total, a, b)
		}
		if !a.Valid() {
			t.Fatalf("Classify(%d) = %q, not a known grade", total, a)
		}
	}
}

func TestGrade_DisplayName(t *testing.T) {
	tests := []struct {
		grade Grade
		want  string
	}{
		{GradeHighDistinction, "High Distinction"},
		{GradeSuppExam, "Supplementary Exam"},
		{GradeAbsentFail, "Absent Fail"},
		{"X", "X"},
	}

	for _, tt := range tests {
		if got := tt.grade.DisplayName(); got != tt.want {
			t.Errorf("Grade(%q).DisplayName() = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestGrade_Valid(t *testing.T) {
	if len(AllGrades()) != 8 {
		t.Fatalf("expected 8 grades, got %d", len(AllGrades()))
	}
	if Grade("Z").Valid() {
		t.Error("unknown grade reported valid")
	}
	if !GradePass.Valid() {
		t.Error("P reported invalid")
	}
}
