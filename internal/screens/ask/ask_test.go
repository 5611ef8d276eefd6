package ask

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/router"
	"github.com/markassist/markassist/internal/screens/records"
	"github.com/markassist/markassist/internal/store"
)

type fakeTranslator struct {
	sel   marks.Selection
	err   error
	asked []string
}

func (f *fakeTranslator) Translate(_ context.Context, q string) (marks.Selection, error) {
	f.asked = append(f.asked, q)
	return f.sel, f.err
}

type rowsStore struct{ rows []store.Row }

func (s rowsStore) RunSelect(context.Context, store.Key, ...any) ([]store.Row, error) {
	return s.rows, nil
}

func (rowsStore) RunCommand(context.Context, store.Key, ...any) (int64, error) { return 0, nil }

func newScreen(tr Translator, rows ...store.Row) *AskScreen {
	repo := marks.NewRepository(rowsStore{rows: rows}, nil)
	return New(marks.NewWorkflow(repo, nil), tr)
}

func ask(a *AskScreen, q string) tea.Cmd {
	for _, r := range q {
		a.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := a.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestQuestionBecomesBrowse(t *testing.T) {
	tr := &fakeTranslator{sel: marks.ByGrade{Grade: grading.GradeCredit}}
	a := newScreen(tr, store.Row{StudentID: "s7", Grade: "C"})

	cmd := ask(a, "who got a credit")
	if cmd == nil {
		t.Fatal("expected a translate command")
	}
	_, cmd = a.Update(cmd())
	if len(tr.asked) != 1 || tr.asked[0] != "who got a credit" {
		t.Errorf("unexpected questions %v", tr.asked)
	}

	loaded, ok := cmd().(records.LoadedMsg)
	if !ok {
		t.Fatalf("expected LoadedMsg, got %T", cmd())
	}
	if loaded.Title != "BY_GRADE C" {
		t.Errorf("unexpected title %q", loaded.Title)
	}

	_, cmd = a.Update(loaded)
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected records screen to be pushed")
	}
}

func TestBlankQuestionIsIgnored(t *testing.T) {
	tr := &fakeTranslator{}
	a := newScreen(tr)
	if cmd := ask(a, "   "); cmd != nil {
		t.Error("blank question should not be sent")
	}
}

func TestTranslatorErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejected", &marks.ErrValidation{Op: marks.OpByGrade, Reason: "unknown grade"}, "Could not turn that into a query: unknown grade"},
		{"provider down", errors.New("rate limited"), "rate limited"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newScreen(&fakeTranslator{err: tt.err})
			cmd := ask(a, "hm")
			_, next := a.Update(cmd())
			if next != nil {
				t.Error("expected no follow-up command")
			}
			if !strings.Contains(a.View(100, 30), tt.want) {
				t.Errorf("expected %q in view:\n%s", tt.want, a.View(100, 30))
			}
			if a.busy {
				t.Error("screen should accept input again")
			}
		})
	}
}
