package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	tuiStateFileName = "tui_state.json"
	tuiStateVersion  = 2
)

// BoardView is where the user left one board.
type BoardView struct {
	// Selected is the id of the selected card.
	Selected  string  `json:"selected,omitempty"`
	ScrollTop float64 `json:"scrollTop,omitempty"`
}

// TUIState is best effort: a missing, corrupt or outdated file reads as the empty state.
type TUIState struct {
	Version   int                  `json:"version"`
	LastBoard string               `json:"lastBoard,omitempty"`
	Boards    map[string]BoardView `json:"boards,omitempty"`
}

func emptyTUIState() *TUIState { return &TUIState{Version: tuiStateVersion} }

// View returns the remembered view of a board.
func (st *TUIState) View(boardID string) (BoardView, bool) {
	if st == nil {
		return BoardView{}, false
	}
	v, ok := st.Boards[boardID]
	return v, ok
}

// Remember records v for boardID and makes it the last opened board.
func (st *TUIState) Remember(boardID string, v BoardView) {
	if st.Boards == nil {
		st.Boards = make(map[string]BoardView)
	}
	st.Boards[boardID] = v
	st.LastBoard = boardID
}

// Forget drops a deleted board.
func (st *TUIState) Forget(boardID string) {
	delete(st.Boards, boardID)
	if st.LastBoard == boardID {
		st.LastBoard = ""
	}
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return emptyTUIState(), nil
	}
	raw, err := os.ReadFile(s.tuiStatePath())
	if errors.Is(err, os.ErrNotExist) {
		return emptyTUIState(), nil
	}
	if err != nil {
		return nil, err
	}
	var st TUIState
	if json.Unmarshal(raw, &st) != nil || st.Version != tuiStateVersion {
		return emptyTUIState(), nil
	}
	return &st, nil
}

// SaveTUIState replaces the state file atomically.
func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	st.Version = tuiStateVersion
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(s.Dir, tuiStateFileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(raw); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.tuiStatePath())
}
