package books

import (
	"net/http"

	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ExpansionForgetter drops session tree state for a book. Satisfied by the
// tree service.
type ExpansionForgetter interface {
	Forget(bookID string)
}

type handler struct {
	bookService *Service
	store       *contentstore.Store
	expansion   ExpansionForgetter
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	books := h.bookService.ListBooks(ctx)

	response := map[string]any{
		"books":          books,
		"total":          len(books),
		"selectedBookId": h.store.SelectedBookID(),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.bookService.RetrieveBook(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.CreateBook(ctx, CreateBookOptions{
		Name:        params.Name,
		Description: params.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.UpdateBook(ctx, c.Param("id"), UpdateBookOptions{
		Name:        params.Name,
		Description: params.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) deleteBook(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if err := h.bookService.DeleteBook(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	// The deleted book's session expansion state has nothing to attach to
	// anymore.
	if h.expansion != nil {
		h.expansion.Forget(id)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) clone(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.bookService.CloneBook(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) selected(c echo.Context) error {
	ctx := c.Request().Context()

	book := h.bookService.SelectedBook(ctx)

	response := map[string]any{"book": book}
	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) select_(c echo.Context) error {
	ctx := c.Request().Context()

	params := SelectBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.bookService.SelectBook(ctx, params.BookID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// children lists a book's items at one level of the tree, ordered by type
// then name. Without a parentId query param it returns the top-level items.
func (h *handler) children(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListChildrenQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	items := h.store.Children(book.ID, params.ParentID)
	if items == nil {
		items = []*models.Item{}
	}

	response := map[string]any{
		"items": items,
		"total": len(items),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}
