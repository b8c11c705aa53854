package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTUIState_RememberSaveLoad(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	st, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if _, ok := st.View("board-1"); ok || st.LastBoard != "" {
		t.Fatalf("expected an empty state, got %#v", st)
	}

	st.Remember("board-1", BoardView{Selected: "card-2", ScrollTop: 42})
	st.Remember("board-2", BoardView{Selected: "card-9"})
	if err := s.SaveTUIState(st); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}

	got, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState (after save): %v", err)
	}
	if got.LastBoard != "board-2" {
		t.Fatalf("expected board-2 to be the last board, got %q", got.LastBoard)
	}
	if v, ok := got.View("board-1"); !ok || !reflect.DeepEqual(v, BoardView{Selected: "card-2", ScrollTop: 42}) {
		t.Fatalf("board-1 view: %#v %v", v, ok)
	}

	got.Forget("board-2")
	if _, ok := got.View("board-2"); ok || got.LastBoard != "" {
		t.Fatalf("expected board-2 to be forgotten: %#v", got)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the state file, found %d entries", len(entries))
	}
}

func TestTUIState_UnreadableFilesReadAsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"corrupt", "{not json"},
		{"old version", `{"version":1,"board":"board-1","selected":"a"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tuiStateFileName), []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			st, err := Store{Dir: dir}.LoadTUIState()
			if err != nil {
				t.Fatalf("LoadTUIState: %v", err)
			}
			if !reflect.DeepEqual(st, emptyTUIState()) {
				t.Fatalf("expected the empty state, got %#v", st)
			}
		})
	}
}
