package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dragsort/internal/model"

	_ "modernc.org/sqlite"
)

// BoardSummary is one row of ListBoards.
type BoardSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Columns   int       `json:"columns"`
	Cards     int       `json:"cards"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite registers the "sqlite" driver.
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL: one writer and many readers, so the TUI and a CLI invocation can share the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS board_columns (
			board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			PRIMARY KEY (board_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			column_id TEXT NOT NULL,
			rank TEXT NOT NULL,
			title TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (board_id, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_column_rank ON cards(board_id, column_id, rank);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// SaveBoard writes b, replacing any previous version with the same id. Missing ids are
// assigned and card ranks are brought in line with the slice order; b is updated in place.
func (s Store) SaveBoard(ctx context.Context, b *model.Board) error {
	if b == nil {
		return errors.New("nil board")
	}
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return ErrEmptyName
	}
	if err := AssignIDs(b); err != nil {
		return err
	}
	for i := range b.Columns {
		if err := rerankColumn(&b.Columns[i]); err != nil {
			return fmt.Errorf("rank column %q: %w", b.Columns[i].ID, err)
		}
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO boards(id, name, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at_unixms = excluded.updated_at_unixms`,
		b.ID, b.Name, b.CreatedAt.UnixMilli(), b.UpdatedAt.UnixMilli()); err != nil {
		return fmt.Errorf("save board %q: %w", b.Name, err)
	}

	// Replace-all per board: a drag rewrites few rows, but whole boards are small.
	for _, t := range []string{"cards", "board_columns"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t+` WHERE board_id = ?`, b.ID); err != nil {
			return err
		}
	}
	nowMs := now.UnixMilli()
	for pos, col := range b.Columns {
		if _, err := tx.ExecContext(ctx, `INSERT INTO board_columns(id, board_id, position, title) VALUES(?, ?, ?, ?)`,
			col.ID, b.ID, pos, col.Title); err != nil {
			return fmt.Errorf("save column %q: %w", col.ID, err)
		}
		for _, c := range col.Cards {
			raw, err := json.Marshal(c)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO cards(id, board_id, column_id, rank, title, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
				c.ID, b.ID, col.ID, c.Rank, c.Title, string(raw), nowMs); err != nil {
				return fmt.Errorf("save card %q: %w", c.ID, err)
			}
		}
	}
	return tx.Commit()
}

func rerankColumn(col *model.Column) error {
	ranks := make([]string, len(col.Cards))
	for i, c := range col.Cards {
		ranks[i] = c.Rank
	}
	next, err := Rerank(ranks)
	if err != nil {
		return err
	}
	for i := range col.Cards {
		col.Cards[i].Rank = next[i]
	}
	return nil
}

// LoadBoard finds a board by id or by name.
func (s Store) LoadBoard(ctx context.Context, ref string) (model.Board, error) {
	ref = strings.TrimSpace(ref)
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Board{}, err
	}
	defer db.Close()

	var (
		b                  model.Board
		createdMs, updated int64
	)
	err = db.QueryRowContext(ctx, `SELECT id, name, created_at_unixms, updated_at_unixms FROM boards WHERE id = ? OR name = ? LIMIT 1`, ref, ref).
		Scan(&b.ID, &b.Name, &createdMs, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Board{}, ErrBoardNotFound
	}
	if err != nil {
		return model.Board{}, err
	}
	b.CreatedAt = time.UnixMilli(createdMs).UTC()
	b.UpdatedAt = time.UnixMilli(updated).UTC()

	rows, err := db.QueryContext(ctx, `SELECT id, title FROM board_columns WHERE board_id = ? ORDER BY position`, b.ID)
	if err != nil {
		return model.Board{}, err
	}
	for rows.Next() {
		var c model.Column
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			rows.Close()
			return model.Board{}, err
		}
		b.Columns = append(b.Columns, c)
	}
	if err := rows.Close(); err != nil {
		return model.Board{}, err
	}

	for i := range b.Columns {
		cards, err := readJSONRows[model.Card](ctx, db, `SELECT json FROM cards WHERE board_id = ? AND column_id = ? ORDER BY rank, id`, b.ID, b.Columns[i].ID)
		if err != nil {
			return model.Board{}, fmt.Errorf("load cards of %q: %w", b.Columns[i].ID, err)
		}
		b.Columns[i].Cards = cards
	}
	return b, nil
}

// ListBoards returns every board, most recently updated first.
func (s Store) ListBoards(ctx context.Context) ([]BoardSummary, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT b.id, b.name, b.updated_at_unixms,
			(SELECT COUNT(*) FROM board_columns c WHERE c.board_id = b.id),
			(SELECT COUNT(*) FROM cards k WHERE k.board_id = b.id)
		FROM boards b ORDER BY b.updated_at_unixms DESC, b.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BoardSummary
	for rows.Next() {
		var (
			sum BoardSummary
			ms  int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &ms, &sum.Columns, &sum.Cards); err != nil {
			return nil, err
		}
		sum.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteBoard removes a board by id or name.
func (s Store) DeleteBoard(ctx context.Context, ref string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM boards WHERE id = ? OR name = ?`, ref, ref)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
