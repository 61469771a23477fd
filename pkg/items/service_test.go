package items

import (
	"context"
	"database/sql"
	"testing"

	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/errcodes"
	"github.com/kastennotes/kasten/pkg/kvstore"
	"github.com/kastennotes/kasten/pkg/migrations"
	"github.com/kastennotes/kasten/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestStore(t *testing.T) *contentstore.Store {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	store := contentstore.New(kvstore.New(db))
	require.NoError(t, store.Load(context.Background()))
	return store
}

func setupBook(t *testing.T, store *contentstore.Store, name string) *models.Book {
	t.Helper()
	book := &models.Book{ID: models.NewID(), Name: name}
	require.NoError(t, store.PutBook(context.Background(), book))
	return book
}

func TestCreateItemRejectsUnknownType(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	book := setupBook(t, store, "Book")

	_, err := svc.CreateItem(context.Background(), CreateItemOptions{Type: "widget", BookID: book.ID, Name: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errcodes.ValidationError("Unknown item type."))
}

func TestCreateItemRequiresCategoryFirst(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()
	book := setupBook(t, store, "Book")

	// No categories yet: folders, articles, and files are rejected.
	_, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeArticle, BookID: book.ID, Name: "Note"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errcodes.ValidationError("Create a category first."))

	cat, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, Name: "Inbox"})
	require.NoError(t, err)
	assert.Nil(t, cat.ParentID)

	// With a category present the article lands under it by default.
	article, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeArticle, BookID: book.ID, Name: "Note"})
	require.NoError(t, err)
	require.NotNil(t, article.ParentID)
	assert.Equal(t, cat.ID, *article.ParentID)
	assert.Equal(t, models.ArticleStatusDraft, article.Status)
}

func TestCreateItemCategoryIgnoresParent(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()
	book := setupBook(t, store, "Book")

	first, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, Name: "First"})
	require.NoError(t, err)

	// Categories always sit at the top level, whatever the caller says.
	second, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, ParentID: &first.ID, Name: "Second"})
	require.NoError(t, err)
	assert.Nil(t, second.ParentID)
}

func TestCreateItemRejectsLeafParent(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()
	book := setupBook(t, store, "Book")

	_, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, Name: "Cat"})
	require.NoError(t, err)
	article, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeArticle, BookID: book.ID, Name: "Note"})
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeFile, BookID: book.ID, ParentID: &article.ID, Name: "attachment"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errcodes.ValidationError("Parent must be a category or folder."))
}

func TestUpdateItemMoveValidation(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()
	book := setupBook(t, store, "Book")

	cat, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, Name: "Cat"})
	require.NoError(t, err)
	outer, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeFolder, BookID: book.ID, ParentID: &cat.ID, Name: "Outer"})
	require.NoError(t, err)
	inner, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeFolder, BookID: book.ID, ParentID: &outer.ID, Name: "Inner"})
	require.NoError(t, err)

	t.Run("cannot nest categories", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, cat.ID, UpdateItemOptions{ParentID: &outer.ID})
		require.Error(t, err)
		assert.ErrorIs(t, err, errcodes.ValidationError("Categories can't be nested."))
	})

	t.Run("cannot move into own subtree", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, outer.ID, UpdateItemOptions{ParentID: &inner.ID})
		require.Error(t, err)
		assert.ErrorIs(t, err, errcodes.ValidationError("An item can't be moved into its own subtree."))
	})

	t.Run("cannot move onto itself", func(t *testing.T) {
		_, err := svc.UpdateItem(ctx, outer.ID, UpdateItemOptions{ParentID: &outer.ID})
		require.Error(t, err)
	})

	t.Run("valid move", func(t *testing.T) {
		moved, err := svc.UpdateItem(ctx, inner.ID, UpdateItemOptions{ParentID: &cat.ID})
		require.NoError(t, err)
		require.NotNil(t, moved.ParentID)
		assert.Equal(t, cat.ID, *moved.ParentID)
	})
}

func TestUpdateItemPartial(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()
	book := setupBook(t, store, "Book")

	_, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, Name: "Cat"})
	require.NoError(t, err)
	article, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeArticle, BookID: book.ID, Name: "Note", Content: "before"})
	require.NoError(t, err)

	status := models.ArticleStatusPublished
	updated, err := svc.UpdateItem(ctx, article.ID, UpdateItemOptions{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ArticleStatusPublished, updated.Status)
	// Untouched fields survive.
	assert.Equal(t, "before", updated.Content)
	assert.Equal(t, "Note", updated.Name)
}

func TestCloneItemDeepForContainers(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()
	book := setupBook(t, store, "Book")

	cat, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, Name: "Cat"})
	require.NoError(t, err)
	folder, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeFolder, BookID: book.ID, ParentID: &cat.ID, Name: "Folder"})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeArticle, BookID: book.ID, ParentID: &folder.ID, Name: "Note"})
	require.NoError(t, err)

	clone, err := svc.CloneItem(ctx, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Folder (Copy)", clone.Name)
	require.NotNil(t, clone.ParentID)
	assert.Equal(t, cat.ID, *clone.ParentID)

	children := store.Children(book.ID, &clone.ID)
	require.Len(t, children, 1)
	assert.Equal(t, "Note", children[0].Name)

	// 1 category + original folder + note + cloned folder + cloned note.
	assert.Len(t, store.ItemsForBook(book.ID), 5)
}

func TestCloneItemShallowForLeaves(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()
	book := setupBook(t, store, "Book")

	_, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, Name: "Cat"})
	require.NoError(t, err)
	article, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeArticle, BookID: book.ID, Name: "Note", Content: "body"})
	require.NoError(t, err)

	clone, err := svc.CloneItem(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "Note (Copy)", clone.Name)
	assert.Equal(t, "body", clone.Content)
	assert.NotEqual(t, article.ID, clone.ID)
}

func TestDeleteItemCascades(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	svc := NewService(store)
	ctx := context.Background()
	book := setupBook(t, store, "Book")

	cat, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeCategory, BookID: book.ID, Name: "Cat"})
	require.NoError(t, err)
	folder, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeFolder, BookID: book.ID, ParentID: &cat.ID, Name: "Folder"})
	require.NoError(t, err)
	note, err := svc.CreateItem(ctx, CreateItemOptions{Type: models.ItemTypeArticle, BookID: book.ID, ParentID: &folder.ID, Name: "Note"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, cat.ID))

	for _, id := range []string{cat.ID, folder.ID, note.ID} {
		_, err := svc.RetrieveItem(ctx, id)
		assert.ErrorIs(t, err, errcodes.NotFound("Item"))
	}
	assert.Empty(t, store.ItemsForBook(book.ID))
}
