package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const sqliteFileName = "boards.sqlite"

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrEmptyName     = errors.New("board name is required")
)

// Store keeps boards in a SQLite file inside Dir.
type Store struct {
	Dir string
}

// DefaultDir is <user config dir>/dragsort.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dragsort"), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is not set")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}
