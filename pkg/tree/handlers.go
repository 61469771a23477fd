package tree

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	treeService *Service
}

func (h *handler) rows(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.treeService.Rows(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{"rows": rows}
	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) toggle(c echo.Context) error {
	ctx := c.Request().Context()

	params := TogglePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rows, err := h.treeService.ToggleItem(ctx, c.Param("id"), params.ItemID)
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{"rows": rows}
	return errors.WithStack(c.JSON(http.StatusOK, response))
}
