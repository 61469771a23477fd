package models

import "time"

// Book is a top-level content container. Its items live in a per-book item
// map keyed by item id; the book record itself only carries metadata.
type Book struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() *Book {
	clone := *b
	if b.Description != nil {
		desc := *b.Description
		clone.Description = &desc
	}
	return &clone
}
