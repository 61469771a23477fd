package models

import "time"

// AllBooksFilterID is the reserved filter id whose membership is computed as
// the full book set rather than stored.
const AllBooksFilterID = "all-books"

// Filter is a named, user-defined subset of books. It stores book ids only;
// ids are resolved to live books at read time so that edits to a book are
// never shadowed by a stale snapshot.
type Filter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BookIDs   []string  `json:"bookIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := *f
	clone.BookIDs = append([]string(nil), f.BookIDs...)
	return &clone
}

// HasBook reports whether the filter's stored membership contains the book.
func (f *Filter) HasBook(bookID string) bool {
	for _, id := range f.BookIDs {
		if id == bookID {
			return true
		}
	}
	return false
}
