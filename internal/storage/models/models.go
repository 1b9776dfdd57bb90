// Package models holds the rows the storage layer reads and writes.
package models

import (
	"time"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// Collection is a user's owned cards.
type Collection struct {
	UserID    string
	Cards     deck.Multiset
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormatCount is the number of stored meta decks in a format.
type FormatCount struct {
	Format    string    `json:"format"`
	Decks     int       `json:"decks"`
	UpdatedAt time.Time `json:"updated_at"`
}
