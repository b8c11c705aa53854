package store

import (
	"strings"
	"testing"

	"dragsort/internal/model"
)

func TestNewRandomID(t *testing.T) {
	id, err := newRandomID("card")
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	suffix, ok := strings.CutPrefix(id, "card-")
	if !ok {
		t.Fatalf("expected card prefix, got %q", id)
	}
	if got, want := len(suffix), 8; got != want {
		t.Fatalf("expected suffix len %d, got %d (%q)", want, got, suffix)
	}
}

func TestAssignIDs_KeepsExisting(t *testing.T) {
	b := model.Board{
		Name: "b",
		Columns: []model.Column{
			{ID: " todo ", Cards: []model.Card{{ID: "c1"}, {Title: "new"}}},
			{Title: "done"},
		},
	}
	if err := AssignIDs(&b); err != nil {
		t.Fatalf("AssignIDs: %v", err)
	}
	if !strings.HasPrefix(b.ID, "board-") {
		t.Fatalf("board id: %q", b.ID)
	}
	if b.Columns[0].ID != "todo" {
		t.Fatalf("expected trimmed column id, got %q", b.Columns[0].ID)
	}
	if !strings.HasPrefix(b.Columns[1].ID, "col-") {
		t.Fatalf("column id: %q", b.Columns[1].ID)
	}
	if b.Columns[0].Cards[0].ID != "c1" || !strings.HasPrefix(b.Columns[0].Cards[1].ID, "card-") {
		t.Fatalf("card ids: %#v", b.Columns[0].Cards)
	}
}
