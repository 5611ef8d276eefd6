package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/markassist/markassist/internal/router"
	"github.com/markassist/markassist/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcome(records int) (*WelcomeScreen, *int) {
	calls := 0
	w := New("sqlite: /tmp/marks.db", records, func() screen.Screen {
		calls++
		return &stubScreen{}
	})
	return w, &calls
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestBannerAppearsAfterDelay(t *testing.T) {
	w, _ := newTestWelcome(3)

	if strings.Contains(w.View(80, 24), "press any key") {
		t.Error("hint should not be visible at start")
	}

	sendTicks(w, 3)
	if w.elapsed != bannerAt {
		t.Errorf("expected elapsed %v, got %v", bannerAt, w.elapsed)
	}

	sendTicks(w, 20)
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
	if !strings.Contains(w.View(80, 24), "press any key") {
		t.Error("hint should be visible after the animation")
	}
}

func TestTickStopsAfterAnimation(t *testing.T) {
	w, _ := newTestWelcome(3)
	sendTicks(w, 20)

	_, cmd := w.Update(tickMsg(time.Now()))
	if cmd != nil {
		t.Error("expected no further ticks once the animation is done")
	}
}

func TestShowsStoreInfo(t *testing.T) {
	w, _ := newTestWelcome(12)
	view := w.View(80, 24)
	if !strings.Contains(view, "sqlite: /tmp/marks.db") || !strings.Contains(view, "12 records") {
		t.Errorf("expected store source and count in view:\n%s", view)
	}

	empty, _ := newTestWelcome(0)
	if !strings.Contains(empty.View(120, 24), "store is empty") {
		t.Error("expected empty-store hint")
	}
}

func TestKeypressReplacesWithHome(t *testing.T) {
	w, calls := newTestWelcome(3)
	sendTicks(w, 1)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("expected a command from keypress")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replace screen should not be nil")
	}

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *calls != 1 {
		t.Errorf("factory should be called exactly once, got %d", *calls)
	}
}
