package items

import (
	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers item routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, store *contentstore.Store) {
	h := &handler{
		itemService: NewService(store),
	}

	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteItem)
	g.POST("/:id/clone", h.clone)
}
