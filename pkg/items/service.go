package items

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

type CreateItemOptions struct {
	Type     string
	BookID   string
	ParentID *string
	Name     string

	Description *string
	IsPrivate   bool
	IsPinned    bool
	IconType    *string
	AutoExpand  bool

	Status  string
	Content string
	Notes   *string

	FileType    string
	FileSize    int64
	StoragePath *string
	URL         *string
}

// CreateItem adds an item to a book's tree. Categories always sit at the
// top level. Folders, articles, and files need a parent: an explicit one
// must be a category or folder in the same book, and when none is given the
// book's first category is used. A book with zero categories rejects
// non-category creation outright.
func (svc *Service) CreateItem(ctx context.Context, opts CreateItemOptions) (*models.Item, error) {
	if !models.ValidItemType(opts.Type) {
		return nil, errcodes.ValidationError("Unknown item type.")
	}
	if _, ok := svc.store.Book(opts.BookID); !ok {
		return nil, errcodes.NotFound("Book")
	}

	parentID := opts.ParentID
	if opts.Type == models.ItemTypeCategory {
		parentID = nil
	} else {
		if !svc.store.HasCategory(opts.BookID) {
			return nil, errcodes.ValidationError("Create a category first.")
		}
		if parentID == nil {
			first, _ := svc.store.FirstCategory(opts.BookID)
			parentID = &first.ID
		} else {
			parent, ok := svc.store.Item(opts.BookID, *parentID)
			if !ok {
				return nil, errcodes.NotFound("Parent item")
			}
			if !models.IsContainerType(parent.Type) {
				return nil, errcodes.ValidationError("Parent must be a category or folder.")
			}
		}
	}

	now := time.Now()
	item := &models.Item{
		ID:        models.NewID(),
		Name:      opts.Name,
		Type:      opts.Type,
		BookID:    opts.BookID,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch opts.Type {
	case models.ItemTypeCategory:
		item.Description = opts.Description
		item.IsPrivate = opts.IsPrivate
		item.IsPinned = opts.IsPinned
		item.IconType = opts.IconType
		item.AutoExpand = opts.AutoExpand
	case models.ItemTypeFolder:
		item.AutoExpand = opts.AutoExpand
	case models.ItemTypeArticle:
		item.Status = opts.Status
		if item.Status == "" {
			item.Status = models.ArticleStatusDraft
		}
		item.Content = opts.Content
		item.Notes = opts.Notes
	case models.ItemTypeFile:
		item.FileType = opts.FileType
		item.FileSize = opts.FileSize
		item.StoragePath = opts.StoragePath
		item.Content = opts.Content
		item.URL = opts.URL
		item.Notes = opts.Notes
	}

	if err := svc.store.PutItem(ctx, item); err != nil {
		return nil, persistError(ctx, err)
	}

	return item, nil
}

func (svc *Service) RetrieveItem(_ context.Context, id string) (*models.Item, error) {
	item, ok := svc.store.FindItem(id)
	if !ok {
		return nil, errcodes.NotFound("Item")
	}
	return item, nil
}

type UpdateItemOptions struct {
	Name     *string
	ParentID *string

	Description *string
	IsPrivate   *bool
	IsPinned    *bool
	IconType    *string
	AutoExpand  *bool

	Status  *string
	Content *string
	Notes   *string

	FileType    *string
	FileSize    *int64
	StoragePath *string
	URL         *string
}

// UpdateItem applies a partial update and refreshes updatedAt. Moving an
// item is an update of its ParentID; the new parent must be a container in
// the same book and must not sit inside the item's own subtree.
func (svc *Service) UpdateItem(ctx context.Context, id string, opts UpdateItemOptions) (*models.Item, error) {
	item, ok := svc.store.FindItem(id)
	if !ok {
		return nil, errcodes.NotFound("Item")
	}

	updated := item.Clone()

	if opts.ParentID != nil {
		if item.Type == models.ItemTypeCategory {
			return nil, errcodes.ValidationError("Categories can't be nested.")
		}
		parent, ok := svc.store.Item(item.BookID, *opts.ParentID)
		if !ok {
			return nil, errcodes.NotFound("Parent item")
		}
		if !models.IsContainerType(parent.Type) {
			return nil, errcodes.ValidationError("Parent must be a category or folder.")
		}
		if parent.ID == item.ID || svc.inSubtree(item, parent) {
			return nil, errcodes.ValidationError("An item can't be moved into its own subtree.")
		}
		updated.ParentID = opts.ParentID
	}

	if opts.Name != nil {
		updated.Name = *opts.Name
	}
	if opts.Description != nil {
		updated.Description = opts.Description
	}
	if opts.IsPrivate != nil {
		updated.IsPrivate = *opts.IsPrivate
	}
	if opts.IsPinned != nil {
		updated.IsPinned = *opts.IsPinned
	}
	if opts.IconType != nil {
		updated.IconType = opts.IconType
	}
	if opts.AutoExpand != nil {
		updated.AutoExpand = *opts.AutoExpand
	}
	if opts.Status != nil {
		updated.Status = *opts.Status
	}
	if opts.Content != nil {
		updated.Content = *opts.Content
	}
	if opts.Notes != nil {
		updated.Notes = opts.Notes
	}
	if opts.FileType != nil {
		updated.FileType = *opts.FileType
	}
	if opts.FileSize != nil {
		updated.FileSize = *opts.FileSize
	}
	if opts.StoragePath != nil {
		updated.StoragePath = opts.StoragePath
	}
	if opts.URL != nil {
		updated.URL = opts.URL
	}
	updated.UpdatedAt = time.Now()

	if err := svc.store.PutItem(ctx, updated); err != nil {
		return nil, persistError(ctx, err)
	}

	return updated, nil
}

// inSubtree reports whether candidate sits anywhere below root.
func (svc *Service) inSubtree(root *models.Item, candidate *models.Item) bool {
	for _, desc := range svc.store.Descendants(root.BookID, root.ID) {
		if desc.ID == candidate.ID {
			return true
		}
	}
	return false
}

// CloneItem copies an item under a fresh id with a "(Copy)" name suffix.
// Container items (categories and folders) bring their whole subtree along,
// remapped to fresh ids the same way book cloning does; leaf items copy
// shallow.
func (svc *Service) CloneItem(ctx context.Context, id string) (*models.Item, error) {
	item, ok := svc.store.FindItem(id)
	if !ok {
		return nil, errcodes.NotFound("Item")
	}

	now := time.Now()
	clone := item.Clone()
	clone.ID = models.NewID()
	clone.Name = item.Name + " (Copy)"
	clone.CreatedAt = now
	clone.UpdatedAt = now

	batch := []*models.Item{clone}

	if models.IsContainerType(item.Type) {
		mapping := map[string]string{item.ID: clone.ID}
		for _, desc := range svc.store.Descendants(item.BookID, item.ID) {
			c := desc.Clone()
			c.ID = models.NewID()
			c.CreatedAt = now
			c.UpdatedAt = now
			mapping[desc.ID] = c.ID
			batch = append(batch, c)
		}
		// Descendants are emitted parents-first, so every parent is already
		// in the mapping by the time its children are rewritten.
		for _, c := range batch[1:] {
			newID := mapping[*c.ParentID]
			c.ParentID = &newID
		}
	}

	if err := svc.store.PutItems(ctx, batch); err != nil {
		return nil, persistError(ctx, err)
	}

	return clone, nil
}

// DeleteItem removes an item and, through parent links, every descendant.
func (svc *Service) DeleteItem(ctx context.Context, id string) error {
	item, ok := svc.store.FindItem(id)
	if !ok {
		return errcodes.NotFound("Item")
	}

	if _, err := svc.store.DeleteItemTree(ctx, item.BookID, item.ID); err != nil {
		return persistError(ctx, err)
	}
	return nil
}

func persistError(ctx context.Context, err error) error {
	logger.FromContext(ctx).Err(err).Error("persist failed")
	return errcodes.PersistFailed()
}
