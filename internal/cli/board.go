package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"dragsort/internal/model"
	"dragsort/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}

	cmd.AddCommand(newBoardListCmd(app))
	cmd.AddCommand(newBoardShowCmd(app))
	cmd.AddCommand(newBoardImportCmd(app))
	cmd.AddCommand(newBoardDeleteCmd(app))
	return cmd
}

func newBoardListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List boards, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			boards, err := s.ListBoards(contextOrBackground(cmd.Context()))
			if err != nil {
				return writeErr(cmd, err)
			}
			if boards == nil {
				boards = []store.BoardSummary{}
			}
			return writeOut(cmd, app, boards)
		},
	}
}

func newBoardShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name-or-id]",
		Short: "Show a board with its cards in order (defaults to --board)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ref := app.Board
			if len(args) == 1 {
				ref = args[0]
			}
			if strings.TrimSpace(ref) == "" {
				return writeErr(cmd, errors.New("missing board (pass a name or --board)"))
			}
			b, err := loadBoard(cmd.Context(), s, ref)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, b)
		},
	}
}

func newBoardImportCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create or replace a board from a YAML file",
		Example: strings.TrimSpace(`
  # work.yaml:
  #   name: work
  #   columns:
  #     - title: Todo
  #       cards:
  #         - title: Write the report
  #           tags: [writing]
  dragsort board import work.yaml
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBoardFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(name) != "" {
				b.Name = name
			}

			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := contextOrBackground(cmd.Context())
			replaced := false
			if existing, err := s.LoadBoard(ctx, strings.TrimSpace(b.Name)); err == nil {
				// Importing under an existing name replaces that board in place.
				b.ID = existing.ID
				b.CreatedAt = existing.CreatedAt
				replaced = true
			} else if !errors.Is(err, store.ErrBoardNotFound) {
				return writeErr(cmd, err)
			}

			if err := s.SaveBoard(ctx, &b); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("board imported", "board", b.Name, "id", b.ID, "replaced", replaced)
			return writeOut(cmd, app, map[string]any{
				"id":       b.ID,
				"name":     b.Name,
				"columns":  len(b.Columns),
				"cards":    b.CardCount(),
				"replaced": replaced,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Board name (overrides the name in the file)")
	return cmd
}

func newBoardDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := loadBoard(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.DeleteBoard(contextOrBackground(cmd.Context()), b.ID); err != nil {
				if errors.Is(err, store.ErrBoardNotFound) {
					return writeErr(cmd, errNotFound("board", args[0]))
				}
				return writeErr(cmd, err)
			}
			if st, err := s.LoadTUIState(); err == nil {
				if _, ok := st.View(b.ID); ok || st.LastBoard == b.ID {
					st.Forget(b.ID)
					if err := s.SaveTUIState(st); err != nil {
						app.log.Warn("forget tui state", "board", b.ID, "err", err)
					}
				}
			}
			return writeOut(cmd, app, map[string]any{"deleted": args[0]})
		},
	}
}

func readBoardFile(path string) (model.Board, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Board{}, err
	}
	var b model.Board
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return model.Board{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return b, nil
}

func loadBoard(ctx context.Context, s store.Store, ref string) (model.Board, error) {
	b, err := s.LoadBoard(contextOrBackground(ctx), ref)
	if errors.Is(err, store.ErrBoardNotFound) {
		return model.Board{}, errNotFound("board", ref)
	}
	return b, err
}
