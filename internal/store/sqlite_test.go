package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"dragsort/internal/model"
)

func sampleBoard(name string) model.Board {
	return model.Board{
		Name: name,
		Columns: []model.Column{
			{ID: "todo", Title: "Todo", Cards: []model.Card{
				{ID: "a", Title: "A"},
				{ID: "b", Title: "B", Tags: []string{"x"}},
				{ID: "c", Title: "C"},
			}},
			{ID: "done", Title: "Done", Cards: []model.Card{{ID: "d", Title: "D"}}},
		},
	}
}

func cardIDs(b model.Board) [][]string {
	out := make([][]string, len(b.Columns))
	for i, col := range b.Columns {
		out[i] = []string{}
		for _, c := range col.Cards {
			out[i] = append(out[i], c.ID)
		}
	}
	return out
}

func TestSQLite_SaveLoadReorder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	b := sampleBoard("work")
	if err := s.SaveBoard(ctx, &b); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	if b.ID == "" || b.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps to be assigned: %#v", b)
	}

	got, err := s.LoadBoard(ctx, "work")
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if want := [][]string{{"a", "b", "c"}, {"d"}}; !reflect.DeepEqual(cardIDs(got), want) {
		t.Fatalf("order: got %v want %v", cardIDs(got), want)
	}
	if !reflect.DeepEqual(got.Columns[0].Cards[1].Tags, []string{"x"}) {
		t.Fatalf("card payload lost: %#v", got.Columns[0].Cards[1])
	}

	// Move a to the end, as a drag would.
	cards := got.Columns[0].Cards
	got.Columns[0].Cards = []model.Card{cards[1], cards[2], cards[0]}
	if err := s.SaveBoard(ctx, &got); err != nil {
		t.Fatalf("SaveBoard (reordered): %v", err)
	}

	again, err := s.LoadBoard(ctx, got.ID)
	if err != nil {
		t.Fatalf("LoadBoard by id: %v", err)
	}
	if want := [][]string{{"b", "c", "a"}, {"d"}}; !reflect.DeepEqual(cardIDs(again), want) {
		t.Fatalf("order after reorder: got %v want %v", cardIDs(again), want)
	}
	if !again.CreatedAt.Equal(got.CreatedAt) {
		t.Fatalf("CreatedAt changed: %v -> %v", got.CreatedAt, again.CreatedAt)
	}
}

func TestSQLite_BoardsAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	one, two := sampleBoard("one"), sampleBoard("two")
	if err := s.SaveBoard(ctx, &one); err != nil {
		t.Fatalf("SaveBoard one: %v", err)
	}
	if err := s.SaveBoard(ctx, &two); err != nil {
		t.Fatalf("SaveBoard two: %v", err)
	}

	list, err := s.ListBoards(ctx)
	if err != nil {
		t.Fatalf("ListBoards: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 boards, got %#v", list)
	}
	for _, sum := range list {
		if sum.Columns != 2 || sum.Cards != 4 {
			t.Fatalf("unexpected summary: %#v", sum)
		}
	}

	if err := s.DeleteBoard(ctx, "one"); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	if _, err := s.LoadBoard(ctx, "one"); !errors.Is(err, ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
	if got, err := s.LoadBoard(ctx, "two"); err != nil || got.CardCount() != 4 {
		t.Fatalf("board two: %v %#v", err, got)
	}
	if err := s.DeleteBoard(ctx, "one"); !errors.Is(err, ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound on second delete, got %v", err)
	}
}

func TestSQLite_SaveRequiresName(t *testing.T) {
	t.Parallel()

	b := sampleBoard("  ")
	if err := (Store{Dir: t.TempDir()}).SaveBoard(context.Background(), &b); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}
