package books

import (
	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, store *contentstore.Store, expansion ExpansionForgetter) {
	h := &handler{
		bookService: NewService(store),
		store:       store,
		expansion:   expansion,
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/selected", h.selected)
	g.PUT("/selected", h.select_)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.deleteBook)
	g.POST("/:id/clone", h.clone)
	g.GET("/:id/items", h.children)
}
