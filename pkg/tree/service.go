package tree

import (
	"context"
	"sync"

	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/errcodes"
)

// Service renders book trees and tracks per-book expansion state for the
// session. Expansion overrides live in memory only; a restart falls back to
// each item's autoExpand flag.
type Service struct {
	mu        sync.Mutex
	store     *contentstore.Store
	expansion map[string]ExpansionState
}

func NewService(store *contentstore.Store) *Service {
	return &Service{
		store:     store,
		expansion: map[string]ExpansionState{},
	}
}

func (svc *Service) stateFor(bookID string) ExpansionState {
	if svc.expansion[bookID] == nil {
		svc.expansion[bookID] = ExpansionState{}
	}
	return svc.expansion[bookID]
}

// Rows renders the current row list for a book.
func (svc *Service) Rows(_ context.Context, bookID string) ([]*Row, error) {
	if _, ok := svc.store.Book(bookID); !ok {
		return nil, errcodes.NotFound("Book")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	return Render(svc.store, bookID, svc.stateFor(bookID)), nil
}

// ToggleItem flips one node's expansion and returns the updated rows.
func (svc *Service) ToggleItem(_ context.Context, bookID, itemID string) ([]*Row, error) {
	if _, ok := svc.store.Book(bookID); !ok {
		return nil, errcodes.NotFound("Book")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	exp := svc.stateFor(bookID)
	rows := Render(svc.store, bookID, exp)
	if !Toggle(rows, itemID, exp) {
		return nil, errcodes.NotFound("Item")
	}
	return rows, nil
}

// Forget drops the expansion state for a book, e.g. after it is deleted.
func (svc *Service) Forget(bookID string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.expansion, bookID)
}
