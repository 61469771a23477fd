package items

import (
	"net/http"

	"github.com/kastennotes/kasten/pkg/htmlutil"
	"github.com/kastennotes/kasten/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const excerptLength = 200

type handler struct {
	itemService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.itemService.RetrieveItem(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	response := struct {
		*models.Item
		Excerpt string `json:"excerpt,omitempty"`
	}{item, ""}
	if item.Type == models.ItemTypeArticle {
		response.Excerpt = htmlutil.Excerpt(item.Content, excerptLength)
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := CreateItemOptions{
		Type:        params.Type,
		BookID:      params.BookID,
		ParentID:    params.ParentID,
		Name:        params.Name,
		Description: params.Description,
		IsPrivate:   params.IsPrivate,
		IsPinned:    params.IsPinned,
		IconType:    params.IconType,
		AutoExpand:  params.AutoExpand,
		Notes:       params.Notes,
		StoragePath: params.StoragePath,
		URL:         params.URL,
	}
	if params.Status != nil {
		opts.Status = *params.Status
	}
	if params.Content != nil {
		opts.Content = *params.Content
	}
	if params.FileType != nil {
		opts.FileType = *params.FileType
	}
	if params.FileSize != nil {
		opts.FileSize = *params.FileSize
	}

	item, err := h.itemService.CreateItem(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, item))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.itemService.UpdateItem(ctx, c.Param("id"), UpdateItemOptions{
		Name:        params.Name,
		ParentID:    params.ParentID,
		Description: params.Description,
		IsPrivate:   params.IsPrivate,
		IsPinned:    params.IsPinned,
		IconType:    params.IconType,
		AutoExpand:  params.AutoExpand,
		Status:      params.Status,
		Content:     params.Content,
		Notes:       params.Notes,
		FileType:    params.FileType,
		FileSize:    params.FileSize,
		StoragePath: params.StoragePath,
		URL:         params.URL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, item))
}

func (h *handler) clone(c echo.Context) error {
	ctx := c.Request().Context()

	item, err := h.itemService.CloneItem(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, item))
}

func (h *handler) deleteItem(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.itemService.DeleteItem(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
