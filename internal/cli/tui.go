package cli

import (
	"context"
	"errors"

	"dragsort/internal/store"
	"dragsort/internal/tui"

	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	ref, err := currentBoardRef(cmd.Context(), app, s)
	if err != nil {
		return writeErr(cmd, err)
	}
	b, err := loadBoard(cmd.Context(), s, ref)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log.Info("opening board", "board", b.Name, "cards", b.CardCount())
	return tui.Run(tui.Options{Store: s, Board: b, Config: app.cfg, Logger: app.tuiLogger()})
}

// currentBoardRef picks the board to open:
// 1) --board
// 2) [tui] board in config.toml
// 3) the most recently updated board
func currentBoardRef(ctx context.Context, app *App, s store.Store) (string, error) {
	if app.Board != "" {
		return app.Board, nil
	}
	if app.cfg.TUI.Board != "" {
		return app.cfg.TUI.Board, nil
	}
	boards, err := s.ListBoards(contextOrBackground(ctx))
	if err != nil {
		return "", err
	}
	if len(boards) == 0 {
		return "", errors.New("no boards yet; run `dragsort board import <file.yaml>` first")
	}
	if st, err := s.LoadTUIState(); err == nil && st.LastBoard != "" {
		for _, b := range boards {
			if b.ID == st.LastBoard {
				return b.ID, nil
			}
		}
	}
	return boards[0].ID, nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
