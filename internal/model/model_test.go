package model

import (
	"reflect"
	"testing"
)

func TestBoard_ListsRoundTrip(t *testing.T) {
	t.Parallel()

	b := Board{
		ID:   "board-1",
		Name: "b",
		Columns: []Column{
			{ID: "todo", Title: "Todo", Cards: []Card{{ID: "c1"}, {ID: "c2"}}},
			{ID: "done", Title: "Done", Cards: []Card{{ID: "c3"}}},
		},
	}
	lists := b.Lists()
	lists[0][0], lists[0][1] = lists[0][1], lists[0][0]

	if b.Columns[0].Cards[0].ID != "c1" {
		t.Fatalf("Lists aliased the board")
	}
	got := b.WithLists(lists)
	want := []string{"c2", "c1"}
	var ids []string
	for _, c := range got.Columns[0].Cards {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("got %v want %v", ids, want)
	}
	if got.Columns[1].Title != "Done" || got.CardCount() != 3 {
		t.Fatalf("unexpected board %+v", got)
	}
}
