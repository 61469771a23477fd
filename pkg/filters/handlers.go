package filters

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	filterService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	filters := h.filterService.ListFilters(ctx)

	response := map[string]any{
		"filters": filters,
		"total":   len(filters),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateFilterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	filter, err := h.filterService.CreateFilter(ctx, params.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, filter))
}

func (h *handler) deleteFilter(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.filterService.DeleteFilter(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) books(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.filterService.BooksForFilter(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"books": books,
		"total": len(books),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) addBook(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.filterService.AddBook(ctx, c.Param("id"), c.Param("bookId")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) removeBook(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.filterService.RemoveBook(ctx, c.Param("id"), c.Param("bookId")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
