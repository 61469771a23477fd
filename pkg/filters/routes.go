package filters

import (
	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers filter routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, store *contentstore.Store) {
	h := &handler{
		filterService: NewService(store),
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.DELETE("/:id", h.deleteFilter)
	g.GET("/:id/books", h.books)
	g.PUT("/:id/books/:bookId", h.addBook)
	g.DELETE("/:id/books/:bookId", h.removeBook)
}
