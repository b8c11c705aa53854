package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"dragsort/internal/config"
	"dragsort/internal/gesture"
	"dragsort/internal/model"
	"dragsort/internal/store"
)

// With a 60x30 terminal every card is 3 rows tall and each header 1 row. The board starts
// on screen row 2, so card i of the first column covers rows [3+3i, 6+3i).
func newTestModel(t *testing.T, mutate func(*config.Config)) (*Model, store.Store) {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	b := model.Board{
		Name: "work",
		Columns: []model.Column{{ID: "todo", Title: "Todo", Cards: []model.Card{
			{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}, {ID: "d", Title: "D"},
		}}},
	}
	if err := s.SaveBoard(context.Background(), &b); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	cfg := config.Default()
	cfg.DisableDebounce = true
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := New(Options{Store: s, Board: b, Config: cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	return m, s
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func storedOrder(t *testing.T, s store.Store) []string {
	t.Helper()
	b, err := s.LoadBoard(context.Background(), "work")
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	var ids []string
	for _, c := range b.Columns[0].Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestModel_LongPressDragSaves(t *testing.T) {
	t.Parallel()

	m, s := newTestModel(t, nil)

	m.Update(mouse(tea.MouseActionPress, 10, 4))
	if m.list.State() != gesture.LongPressing {
		t.Fatalf("expected long-pressing, got %s", m.list.State())
	}
	m.Update(longPressMsg{seq: m.pointer.seq})
	if m.list.State() != gesture.Dragging || m.list.Session().ActiveItem != 0 {
		t.Fatalf("expected drag of card 0, state=%s session=%+v", m.list.State(), m.list.Session())
	}
	if !m.scroller.disabled {
		t.Fatalf("expected scrolling to be disabled while dragging")
	}

	m.Update(mouse(tea.MouseActionMotion, 10, 13))
	if got := m.list.Session().HoverItem; got != 3 {
		t.Fatalf("expected hover on card 3, got %d", got)
	}
	m.Update(mouse(tea.MouseActionRelease, 10, 13))

	want := []string{"b", "c", "d", "a"}
	if got := storedOrder(t, s); !reflect.DeepEqual(got, want) {
		t.Fatalf("stored order %v want %v", got, want)
	}
	if m.list.State() != gesture.Idle || m.scroller.disabled {
		t.Fatalf("expected idle with scrolling enabled")
	}
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
}

func TestModel_HandleDrag(t *testing.T) {
	t.Parallel()

	m, s := newTestModel(t, nil)

	m.Update(mouse(tea.MouseActionPress, 1, 7))
	if m.list.State() != gesture.Pressed {
		t.Fatalf("expected pressed, got %s", m.list.State())
	}
	m.Update(mouse(tea.MouseActionMotion, 1, 4))
	m.Update(mouse(tea.MouseActionRelease, 1, 4))

	if got, want := storedOrder(t, s), []string{"b", "a", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("stored order %v want %v", got, want)
	}
	if m.selected != "b" {
		t.Fatalf("expected the pressed card to be selected, got %q", m.selected)
	}
}

func TestModel_MovingBeforeHoldCancels(t *testing.T) {
	t.Parallel()

	m, s := newTestModel(t, nil)

	m.Update(mouse(tea.MouseActionPress, 10, 4))
	seq := m.pointer.seq
	m.Update(mouse(tea.MouseActionMotion, 10, 8))
	m.Update(longPressMsg{seq: seq})
	if m.list.State() != gesture.Idle {
		t.Fatalf("expected idle, got %s", m.list.State())
	}
	m.Update(mouse(tea.MouseActionRelease, 10, 8))

	if got, want := storedOrder(t, s), []string{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("stored order %v want %v", got, want)
	}
}

func TestModel_DebouncedSaveFiresOnTimerOrQuit(t *testing.T) {
	t.Parallel()

	drag := func(m *Model) {
		m.Update(mouse(tea.MouseActionPress, 1, 4))
		m.Update(mouse(tea.MouseActionMotion, 1, 7))
		m.Update(mouse(tea.MouseActionRelease, 1, 7))
	}
	debounced := func(c *config.Config) { c.DisableDebounce = false }
	want := []string{"b", "a", "c", "d"}

	t.Run("timer", func(t *testing.T) {
		t.Parallel()
		m, s := newTestModel(t, debounced)
		drag(m)
		if got := storedOrder(t, s); reflect.DeepEqual(got, want) {
			t.Fatalf("expected the save to wait for the debounce")
		}
		m.Update(timerMsg{id: m.sched.seq})
		if got := storedOrder(t, s); !reflect.DeepEqual(got, want) {
			t.Fatalf("stored order %v want %v", got, want)
		}
	})

	t.Run("quit", func(t *testing.T) {
		t.Parallel()
		m, s := newTestModel(t, debounced)
		drag(m)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatalf("expected a quit command")
		}
		if got := storedOrder(t, s); !reflect.DeepEqual(got, want) {
			t.Fatalf("stored order %v want %v", got, want)
		}
		st, err := s.LoadTUIState()
		if err != nil {
			t.Fatalf("LoadTUIState: %v", err)
		}
		if v, ok := st.View(m.board.ID); !ok || v.Selected != "a" || st.LastBoard != m.board.ID {
			t.Fatalf("tui state not saved: %#v", st)
		}
	})
}

func TestModel_WheelScrollIsClamped(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	// Shrink the viewport so the board overflows: 13 rows of content in 6.
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})

	for i := 0; i < 5; i++ {
		m.Update(tea.MouseMsg{X: 10, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	}
	if got := m.list.ScrollTop(); got != 7 {
		t.Fatalf("expected scroll clamped to 7, got %v", got)
	}
	m.Update(tea.MouseMsg{X: 10, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if got := m.list.ScrollTop(); got != 4 {
		t.Fatalf("expected scroll 4, got %v", got)
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	m, _ := newTestModel(t, nil)
	out := m.View()
	for _, want := range []string{"work", "Todo (4)", "⠿ A", "⠿ D"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n") + 1; got != 30 {
		t.Fatalf("expected 30 lines, got %d", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if out := m.View(); !strings.Contains(out, "Terminal") {
		t.Fatalf("expected help overlay:\n%s", out)
	}
}
