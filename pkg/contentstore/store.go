// Package contentstore holds the in-memory source of truth for books, their
// item trees, filters, and the selected book. Every mutation persists the
// affected collections to the key-value store synchronously before
// returning; on a failed persist the in-memory state stays ahead of the
// store and the error is surfaced to the caller.
package contentstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kastennotes/kasten/pkg/kvstore"
	"github.com/kastennotes/kasten/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Storage keys. The items key is named "categories" for compatibility with
// data written before folders, articles, and files shared the collection.
const (
	keyBooks        = "books"
	keyItems        = "categories"
	keySelectedBook = "selectedBookId"
	keyFilters      = "filters"
)

type Store struct {
	mu  sync.RWMutex
	kv  *kvstore.Store
	log logger.Logger

	books          map[string]*models.Book
	items          map[string]map[string]*models.Item
	filters        map[string]*models.Filter
	selectedBookID string
}

func New(kv *kvstore.Store) *Store {
	return &Store{
		kv:      kv,
		log:     logger.New(),
		books:   map[string]*models.Book{},
		items:   map[string]map[string]*models.Item{},
		filters: map[string]*models.Filter{},
	}
}

// Load hydrates the model from the key-value store. A collection that fails
// to decode resets to empty with a warning; only store-level read errors
// abort the load.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.kv.Load(ctx, keyBooks)
	if err != nil {
		return errors.WithStack(err)
	}
	if ok {
		books, err := decodeBooks(data)
		if err != nil {
			s.log.Err(err).Warn("discarding unreadable books collection")
			books = map[string]*models.Book{}
		}
		s.books = books
	}

	data, ok, err = s.kv.Load(ctx, keyItems)
	if err != nil {
		return errors.WithStack(err)
	}
	if ok {
		items, err := decodeItems(data)
		if err != nil {
			s.log.Err(err).Warn("discarding unreadable items collection")
			items = map[string]map[string]*models.Item{}
		}
		s.items = items
	}

	data, ok, err = s.kv.Load(ctx, keyFilters)
	if err != nil {
		return errors.WithStack(err)
	}
	if ok {
		filters, err := decodeFilters(data)
		if err != nil {
			s.log.Err(err).Warn("discarding unreadable filters collection")
			filters = map[string]*models.Filter{}
		}
		s.filters = filters
	}

	selected, ok, err := s.kv.Load(ctx, keySelectedBook)
	if err != nil {
		return errors.WithStack(err)
	}
	if ok {
		if _, exists := s.books[selected]; exists {
			s.selectedBookID = selected
		}
	}

	return nil
}

// Reset clears all in-memory state without touching the store. Used for
// test isolation.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = map[string]*models.Book{}
	s.items = map[string]map[string]*models.Item{}
	s.filters = map[string]*models.Filter{}
	s.selectedBookID = ""
}

// Books returns all books ordered by case-insensitive name.
func (s *Store) Books() []*models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.booksLocked()
}

func (s *Store) booksLocked() []*models.Book {
	books := make([]*models.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool {
		ni, nj := strings.ToLower(books[i].Name), strings.ToLower(books[j].Name)
		if ni != nj {
			return ni < nj
		}
		return books[i].ID < books[j].ID
	})
	return books
}

func (s *Store) Book(id string) (*models.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	return b, ok
}

func (s *Store) SelectedBookID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedBookID
}

// SetSelectedBook records which book the sidebar has open.
func (s *Store) SetSelectedBook(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedBookID = bookID
	return s.kv.Save(ctx, keySelectedBook, bookID)
}

// Item looks up an item within a specific book.
func (s *Store) Item(bookID, itemID string) (*models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[bookID][itemID]
	return item, ok
}

// FindItem scans all books for an item id.
func (s *Store) FindItem(itemID string) (*models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, byID := range s.items {
		if item, ok := byID[itemID]; ok {
			return item, true
		}
	}
	return nil, false
}

// ItemsForBook returns every item in the book in no particular order.
func (s *Store) ItemsForBook(bookID string) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]*models.Item, 0, len(s.items[bookID]))
	for _, item := range s.items[bookID] {
		items = append(items, item)
	}
	return items
}

// Children returns the items whose parent matches parentID (nil for
// top-level items), ordered by type precedence then case-insensitive name.
func (s *Store) Children(bookID string, parentID *string) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.childrenLocked(bookID, parentID)
}

func (s *Store) childrenLocked(bookID string, parentID *string) []*models.Item {
	var children []*models.Item
	for _, item := range s.items[bookID] {
		if parentID == nil {
			if item.ParentID == nil {
				children = append(children, item)
			}
		} else if item.ParentID != nil && *item.ParentID == *parentID {
			children = append(children, item)
		}
	}
	SortItems(children)
	return children
}

// SortItems orders items in place by type precedence (category, folder,
// article, file), then case-insensitive name, then id.
func SortItems(items []*models.Item) {
	sort.Slice(items, func(i, j int) bool {
		ri, rj := models.TypeRank(items[i].Type), models.TypeRank(items[j].Type)
		if ri != rj {
			return ri < rj
		}
		ni, nj := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if ni != nj {
			return ni < nj
		}
		return items[i].ID < items[j].ID
	})
}

// HasCategory reports whether the book contains at least one category.
// Folder, article, and file creation is gated on this: without a category
// there is nothing to serve as a fallback parent.
func (s *Store) HasCategory(bookID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items[bookID] {
		if item.Type == models.ItemTypeCategory {
			return true
		}
	}
	return false
}

// FirstCategory returns the book's first category in child order.
func (s *Store) FirstCategory(bookID string) (*models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var categories []*models.Item
	for _, item := range s.items[bookID] {
		if item.Type == models.ItemTypeCategory {
			categories = append(categories, item)
		}
	}
	if len(categories) == 0 {
		return nil, false
	}
	SortItems(categories)
	return categories[0], true
}

// Descendants returns every item reachable from itemID through parent
// links, in depth-first child order. The visited set guards against cycles
// in corrupt data.
func (s *Store) Descendants(bookID, itemID string) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visited := map[string]bool{itemID: true}
	return s.descendantsLocked(bookID, itemID, visited)
}

func (s *Store) descendantsLocked(bookID, itemID string, visited map[string]bool) []*models.Item {
	var result []*models.Item
	for _, child := range s.childrenLocked(bookID, &itemID) {
		if visited[child.ID] {
			continue
		}
		visited[child.ID] = true
		result = append(result, child)
		result = append(result, s.descendantsLocked(bookID, child.ID, visited)...)
	}
	return result
}

// PutBook inserts or replaces a book record and persists the collection.
func (s *Store) PutBook(ctx context.Context, book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.ID] = book
	if s.items[book.ID] == nil {
		s.items[book.ID] = map[string]*models.Item{}
	}
	return s.persistLocked(ctx, keyBooks)
}

// InsertBookWithItems inserts a book together with a prebuilt item map in
// one persist pass. Used by book cloning.
func (s *Store) InsertBookWithItems(ctx context.Context, book *models.Book, items map[string]*models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.ID] = book
	if items == nil {
		items = map[string]*models.Item{}
	}
	s.items[book.ID] = items
	return s.persistLocked(ctx, keyBooks, keyItems)
}

// DeleteBook removes the book, its entire item map, and its memberships in
// every filter. If the deleted book was selected, selection falls back to
// the first remaining book by name, or clears.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.books, bookID)
	delete(s.items, bookID)

	keys := []string{keyBooks, keyItems}

	// Clone and replace rather than truncating in place: readers hand out
	// live filter pointers that are serialized after the lock is released.
	filtersChanged := false
	for id, f := range s.filters {
		if !f.HasBook(bookID) {
			continue
		}
		updated := f.Clone()
		kept := updated.BookIDs[:0]
		for _, bid := range updated.BookIDs {
			if bid != bookID {
				kept = append(kept, bid)
			}
		}
		updated.BookIDs = kept
		s.filters[id] = updated
		filtersChanged = true
	}
	if filtersChanged {
		keys = append(keys, keyFilters)
	}

	if s.selectedBookID == bookID {
		s.selectedBookID = ""
		if remaining := s.booksLocked(); len(remaining) > 0 {
			s.selectedBookID = remaining[0].ID
		}
		keys = append(keys, keySelectedBook)
	}

	return s.persistLocked(ctx, keys...)
}

// PutItem inserts or replaces a single item and persists the collection.
func (s *Store) PutItem(ctx context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items[item.BookID] == nil {
		s.items[item.BookID] = map[string]*models.Item{}
	}
	s.items[item.BookID][item.ID] = item
	return s.persistLocked(ctx, keyItems)
}

// PutItems inserts a batch of items into their book's map in one persist
// pass. Used by subtree cloning.
func (s *Store) PutItems(ctx context.Context, items []*models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if s.items[item.BookID] == nil {
			s.items[item.BookID] = map[string]*models.Item{}
		}
		s.items[item.BookID][item.ID] = item
	}
	return s.persistLocked(ctx, keyItems)
}

// DeleteItemTree removes the item and every descendant reachable through
// parent links, returning the removed records in depth-first order (the
// root first).
func (s *Store) DeleteItemTree(ctx context.Context, bookID, itemID string) ([]*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, ok := s.items[bookID][itemID]
	if !ok {
		return nil, nil
	}

	visited := map[string]bool{itemID: true}
	removed := append([]*models.Item{root}, s.descendantsLocked(bookID, itemID, visited)...)
	for _, item := range removed {
		delete(s.items[bookID], item.ID)
	}

	err := s.persistLocked(ctx, keyItems)
	return removed, err
}

// Filters returns all stored filters ordered by creation time. The computed
// all-books view is not included.
func (s *Store) Filters() []*models.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filters := make([]*models.Filter, 0, len(s.filters))
	for _, f := range s.filters {
		filters = append(filters, f)
	}
	sort.Slice(filters, func(i, j int) bool {
		if !filters[i].CreatedAt.Equal(filters[j].CreatedAt) {
			return filters[i].CreatedAt.Before(filters[j].CreatedAt)
		}
		return filters[i].ID < filters[j].ID
	})
	return filters
}

func (s *Store) Filter(id string) (*models.Filter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.filters[id]
	return f, ok
}

// PutFilter inserts or replaces a filter and persists the collection.
func (s *Store) PutFilter(ctx context.Context, f *models.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[f.ID] = f
	return s.persistLocked(ctx, keyFilters)
}

// DeleteFilter removes a filter and persists the collection.
func (s *Store) DeleteFilter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.filters, id)
	return s.persistLocked(ctx, keyFilters)
}

// persistLocked serializes and saves the named collections. Callers must
// hold the write lock.
func (s *Store) persistLocked(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		var data string
		var err error
		switch key {
		case keyBooks:
			data, err = encodeBooks(s.books)
		case keyItems:
			data, err = encodeItems(s.items)
		case keyFilters:
			data, err = encodeFilters(s.filters)
		case keySelectedBook:
			data = s.selectedBookID
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if err := s.kv.Save(ctx, key, data); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
