package model

import "time"

// Card is one draggable entry on a board.
type Card struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	// Rank orders cards inside a column (lexicographic). It is assigned by the store.
	Rank string `json:"rank,omitempty" yaml:"-"`
}

// Column is one list of cards. A board with several columns is displayed as stacked lists.
type Column struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Cards []Card `json:"cards" yaml:"cards"`
}

type Board struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Columns   []Column  `json:"columns" yaml:"columns"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"-"`
}

// Lists returns the cards of every column, in column order.
func (b Board) Lists() [][]Card {
	out := make([][]Card, len(b.Columns))
	for i, c := range b.Columns {
		out[i] = append([]Card(nil), c.Cards...)
	}
	return out
}

// WithLists returns a copy of b whose columns hold lists. Extra lists are ignored.
func (b Board) WithLists(lists [][]Card) Board {
	out := b
	out.Columns = make([]Column, len(b.Columns))
	for i, c := range b.Columns {
		c.Cards = nil
		if i < len(lists) {
			c.Cards = append([]Card(nil), lists[i]...)
		}
		out.Columns[i] = c
	}
	return out
}

// CardCount is the number of cards across all columns.
func (b Board) CardCount() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Cards)
	}
	return n
}
