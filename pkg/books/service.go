package books

import (
	"context"
	"time"

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

type CreateBookOptions struct {
	Name        string
	Description *string
}

func (svc *Service) CreateBook(ctx context.Context, opts CreateBookOptions) (*models.Book, error) {
	now := time.Now()

	book := &models.Book{
		ID:          models.NewID(),
		Name:        opts.Name,
		Description: opts.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := svc.store.PutBook(ctx, book); err != nil {
		return nil, persistError(ctx, err)
	}

	// The first book becomes the selection automatically.
	if svc.store.SelectedBookID() == "" {
		if err := svc.store.SetSelectedBook(ctx, book.ID); err != nil {
			return nil, persistError(ctx, err)
		}
	}

	return book, nil
}

func (svc *Service) RetrieveBook(_ context.Context, id string) (*models.Book, error) {
	book, ok := svc.store.Book(id)
	if !ok {
		return nil, errcodes.NotFound("Book")
	}
	return book, nil
}

func (svc *Service) ListBooks(_ context.Context) []*models.Book {
	return svc.store.Books()
}

type UpdateBookOptions struct {
	Name        *string
	Description *string
}

func (svc *Service) UpdateBook(ctx context.Context, id string, opts UpdateBookOptions) (*models.Book, error) {
	book, ok := svc.store.Book(id)
	if !ok {
		return nil, errcodes.NotFound("Book")
	}

	updated := book.Clone()
	if opts.Name != nil {
		updated.Name = *opts.Name
	}
	if opts.Description != nil {
		updated.Description = opts.Description
	}
	updated.UpdatedAt = time.Now()

	if err := svc.store.PutBook(ctx, updated); err != nil {
		return nil, persistError(ctx, err)
	}

	return updated, nil
}

func (svc *Service) DeleteBook(ctx context.Context, id string) error {
	if _, ok := svc.store.Book(id); !ok {
		return errcodes.NotFound("Book")
	}

	if err := svc.store.DeleteBook(ctx, id); err != nil {
		return persistError(ctx, err)
	}
	return nil
}

// CloneBook deep-clones a book and its whole item map. Item records are
// flat and reference their parent by id, so the clone runs in two passes:
// first every item is copied under a fresh id, then every copied parentId
// is rewritten through the old-to-new mapping.
func (svc *Service) CloneBook(ctx context.Context, id string) (*models.Book, error) {
	book, ok := svc.store.Book(id)
	if !ok {
		return nil, errcodes.NotFound("Book")
	}

	now := time.Now()
	clone := book.Clone()
	clone.ID = models.NewID()
	clone.Name = book.Name + " (Copy)"
	clone.CreatedAt = now
	clone.UpdatedAt = now

	mapping := map[string]string{}
	cloned := make([]*models.Item, 0)
	for _, item := range svc.store.ItemsForBook(id) {
		c := item.Clone()
		c.ID = models.NewID()
		c.BookID = clone.ID
		c.CreatedAt = now
		c.UpdatedAt = now
		mapping[item.ID] = c.ID
		cloned = append(cloned, c)
	}

	items := make(map[string]*models.Item, len(cloned))
	for _, c := range cloned {
		if c.ParentID != nil {
			if newID, ok := mapping[*c.ParentID]; ok {
				c.ParentID = &newID
			} else {
				// Dangling parent reference in the source; the clone
				// surfaces it as a top-level item instead of dropping it.
				c.ParentID = nil
			}
		}
		items[c.ID] = c
	}

	if err := svc.store.InsertBookWithItems(ctx, clone, items); err != nil {
		return nil, persistError(ctx, err)
	}

	return clone, nil
}

// SelectBook marks a book as the one the sidebar has open.
func (svc *Service) SelectBook(ctx context.Context, id string) error {
	if _, ok := svc.store.Book(id); !ok {
		return errcodes.NotFound("Book")
	}
	if err := svc.store.SetSelectedBook(ctx, id); err != nil {
		return persistError(ctx, err)
	}
	return nil
}

// SelectedBook returns the currently selected book, or nil when no book is
// selected.
func (svc *Service) SelectedBook(_ context.Context) *models.Book {
	id := svc.store.SelectedBookID()
	if id == "" {
		return nil
	}
	book, ok := svc.store.Book(id)
	if !ok {
		return nil
	}
	return book
}

// persistError logs a failed store write and converts it into the visible
// persistence error. The in-memory model is not rolled back.
func persistError(ctx context.Context, err error) error {
	logger.FromContext(ctx).Err(err).Error("persist failed")
	return errcodes.PersistFailed()
}
