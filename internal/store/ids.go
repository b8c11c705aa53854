package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"dragsort/internal/model"
)

// newRandomID returns prefix-<suffix>, suffix being 8 lowercase base32 chars (40 bits).
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return prefix + "-" + strings.ToLower(enc.EncodeToString(b[:])), nil
}

// AssignIDs fills in every missing board, column and card id.
func AssignIDs(b *model.Board) error {
	fill := func(id *string, prefix string) error {
		if strings.TrimSpace(*id) != "" {
			*id = strings.TrimSpace(*id)
			return nil
		}
		v, err := newRandomID(prefix)
		if err != nil {
			return err
		}
		*id = v
		return nil
	}
	if err := fill(&b.ID, "board"); err != nil {
		return err
	}
	for i := range b.Columns {
		if err := fill(&b.Columns[i].ID, "col"); err != nil {
			return err
		}
		for j := range b.Columns[i].Cards {
			if err := fill(&b.Columns[i].Cards[j].ID, "card"); err != nil {
				return err
			}
		}
	}
	return nil
}
