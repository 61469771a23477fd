package filters

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/errcodes"
	"github.com/kastennotes/kasten/pkg/models"
	"github.com/robinjoseph08/golib/logger"
)

type Service struct {
	store *contentstore.Store
}

func NewService(store *contentstore.Store) *Service {
	return &Service{store}
}

// CreateFilter creates a named book filter. The id is the slugified name;
// a name that slugs to an existing filter, or to the reserved all-books
// view, is rejected.
func (svc *Service) CreateFilter(ctx context.Context, name string) (*models.Filter, error) {
	id := slug.Make(name)
	if id == "" {
		return nil, errcodes.ValidationError("Filter name must contain at least one letter or digit.")
	}
	if id == models.AllBooksFilterID {
		return nil, errcodes.ValidationError(fmt.Sprintf("%q is a reserved filter name.", name))
	}
	if _, ok := svc.store.Filter(id); ok {
		return nil, errcodes.Conflict(fmt.Sprintf("A filter named %q already exists.", name))
	}

	filter := &models.Filter{
		ID:        id,
		Name:      name,
		BookIDs:   []string{},
		CreatedAt: time.Now(),
	}

	if err := svc.store.PutFilter(ctx, filter); err != nil {
		return nil, persistError(ctx, err)
	}

	return filter, nil
}

// ListFilters returns the computed all-books view followed by the stored
// filters in creation order.
func (svc *Service) ListFilters(_ context.Context) []*models.Filter {
	books := svc.store.Books()
	allBooks := &models.Filter{
		ID:      models.AllBooksFilterID,
		Name:    "All Books",
		BookIDs: make([]string, 0, len(books)),
	}
	for _, b := range books {
		allBooks.BookIDs = append(allBooks.BookIDs, b.ID)
	}

	return append([]*models.Filter{allBooks}, svc.store.Filters()...)
}

func (svc *Service) RetrieveFilter(_ context.Context, id string) (*models.Filter, error) {
	if id == models.AllBooksFilterID {
		return nil, errcodes.ValidationError("The all-books view is computed and has no stored filter.")
	}
	filter, ok := svc.store.Filter(id)
	if !ok {
		return nil, errcodes.NotFound("Filter")
	}
	return filter, nil
}

func (svc *Service) DeleteFilter(ctx context.Context, id string) error {
	if id == models.AllBooksFilterID {
		return errcodes.ValidationError("The all-books view can't be deleted.")
	}
	if _, ok := svc.store.Filter(id); !ok {
		return errcodes.NotFound("Filter")
	}

	if err := svc.store.DeleteFilter(ctx, id); err != nil {
		return persistError(ctx, err)
	}
	return nil
}

// AddBook appends a book to a filter's membership. Adding a book that is
// already a member is a no-op.
func (svc *Service) AddBook(ctx context.Context, filterID, bookID string) error {
	filter, err := svc.RetrieveFilter(ctx, filterID)
	if err != nil {
		return err
	}
	if _, ok := svc.store.Book(bookID); !ok {
		return errcodes.NotFound("Book")
	}
	if filter.HasBook(bookID) {
		return nil
	}

	updated := filter.Clone()
	updated.BookIDs = append(updated.BookIDs, bookID)

	if err := svc.store.PutFilter(ctx, updated); err != nil {
		return persistError(ctx, err)
	}
	return nil
}

// RemoveBook drops a book from a filter's membership.
func (svc *Service) RemoveBook(ctx context.Context, filterID, bookID string) error {
	filter, err := svc.RetrieveFilter(ctx, filterID)
	if err != nil {
		return err
	}
	if !filter.HasBook(bookID) {
		return nil
	}

	updated := filter.Clone()
	kept := updated.BookIDs[:0]
	for _, id := range updated.BookIDs {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	updated.BookIDs = kept

	if err := svc.store.PutFilter(ctx, updated); err != nil {
		return persistError(ctx, err)
	}
	return nil
}

// BooksForFilter resolves a filter's membership to live book records, in
// add order. The all-books view returns every book. Stale ids pointing at
// deleted books are skipped.
func (svc *Service) BooksForFilter(_ context.Context, filterID string) ([]*models.Book, error) {
	if filterID == models.AllBooksFilterID {
		return svc.store.Books(), nil
	}

	filter, ok := svc.store.Filter(filterID)
	if !ok {
		return nil, errcodes.NotFound("Filter")
	}

	books := make([]*models.Book, 0, len(filter.BookIDs))
	for _, id := range filter.BookIDs {
		if book, ok := svc.store.Book(id); ok {
			books = append(books, book)
		}
	}
	return books, nil
}

func persistError(ctx context.Context, err error) error {
	logger.FromContext(ctx).Err(err).Error("persist failed")
	return errcodes.PersistFailed()
}
