package query

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/marks"
	"github.com/markassist/markassist/internal/router"
	"github.com/markassist/markassist/internal/screens/records"
	"github.com/markassist/markassist/internal/store"
)

// countingStore records how often the store is reached.
type countingStore struct {
	rows    []store.Row
	selects int
}

func (c *countingStore) RunSelect(context.Context, store.Key, ...any) ([]store.Row, error) {
	c.selects++
	return c.rows, nil
}

func (c *countingStore) RunCommand(context.Context, store.Key, ...any) (int64, error) {
	return 0, nil
}

func newScreen(rows ...store.Row) (*QueryScreen, *countingStore) {
	cs := &countingStore{rows: rows}
	return New(marks.NewWorkflow(marks.NewRepository(cs, nil), nil)), cs
}

// pick selects the i-th choice from the menu.
func pick(t *testing.T, q *QueryScreen, i int) tea.Cmd {
	t.Helper()
	for range i {
		q.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := q.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from the menu")
	}
	_, cmd = q.Update(cmd())
	return cmd
}

func typeText(q *QueryScreen, s string) {
	for _, r := range s {
		q.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestAllRunsImmediately(t *testing.T) {
	q, cs := newScreen(store.Row{StudentID: "s1", Grade: "F"})

	cmd := pick(t, q, 0)
	if cmd == nil {
		t.Fatal("expected ALL to load without parameters")
	}
	loaded, ok := cmd().(records.LoadedMsg)
	if !ok {
		t.Fatalf("expected LoadedMsg, got %T", cmd())
	}
	if cs.selects != 1 || len(loaded.Records) != 1 || loaded.Title != "ALL" {
		t.Errorf("unexpected load: selects=%d %+v", cs.selects, loaded)
	}
	if loaded.Selection != (marks.All{}) {
		t.Errorf("expected the ALL selection, got %#v", loaded.Selection)
	}

	_, cmd = q.Update(loaded)
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected the records screen to be pushed")
	}
}

func TestGradeParamIsPassedThrough(t *testing.T) {
	q, _ := newScreen(store.Row{StudentID: "s1", Grade: "C"})

	if cmd := pick(t, q, 1); cmd != nil {
		t.Fatal("a selection with parameters should wait for input")
	}
	if q.Title() != "By grade" {
		t.Errorf("unexpected title %q", q.Title())
	}
	typeText(q, "c")

	_, cmd := q.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	loaded := cmd().(records.LoadedMsg)
	if loaded.Title != "BY_GRADE c" {
		t.Errorf("unexpected title %q", loaded.Title)
	}
	if loaded.Records[0].Grade != grading.GradeCredit {
		t.Errorf("unexpected records %+v", loaded.Records)
	}
}

func TestValidationFailsBeforeStore(t *testing.T) {
	q, cs := newScreen()

	pick(t, q, 2)
	typeText(q, "70")

	_, cmd := q.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no load without a range end")
	}
	if cs.selects != 0 {
		t.Errorf("store should not be reached, got %d selects", cs.selects)
	}
	if !strings.Contains(q.View(100, 30), "range end must not be empty") {
		t.Errorf("expected the validation error in view:\n%s", q.View(100, 30))
	}
}

func TestNonNumericKeysAreDropped(t *testing.T) {
	q, _ := newScreen()
	pick(t, q, 3)
	typeText(q, "a2b")

	if got := q.form.Values()[0]; got != "2" {
		t.Errorf("expected 2, got %q", got)
	}
}

func TestEmptyResultShowsNoRecords(t *testing.T) {
	q, _ := newScreen()

	cmd := pick(t, q, 0)
	_, next := q.Update(cmd())
	if next != nil {
		t.Error("nothing should be pushed for an empty result")
	}
	if !strings.Contains(q.View(100, 30), records.NoRecords) {
		t.Errorf("expected %q in view", records.NoRecords)
	}
}
