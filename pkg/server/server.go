package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kastennotes/kasten/pkg/binder"
	"github.com/kastennotes/kasten/pkg/books"
	"github.com/kastennotes/kasten/pkg/comments"
	"github.com/kastennotes/kasten/pkg/config"
	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/errcodes"
	"github.com/kastennotes/kasten/pkg/filters"
	"github.com/kastennotes/kasten/pkg/items"
	"github.com/kastennotes/kasten/pkg/tree"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
)

func New(cfg *config.Config, store *contentstore.Store, commentService *comments.Service) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	registerRoutes(e, store, commentService)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func registerRoutes(e *echo.Echo, store *contentstore.Store, commentService *comments.Service) {
	// Books routes, plus the tree rendering routes that hang off a book. The
	// tree service is shared so book deletion can drop expansion state.
	treeService := tree.NewService(store)
	booksGroup := e.Group("/books")
	books.RegisterRoutesWithGroup(booksGroup, store, treeService)
	tree.RegisterRoutesWithGroup(booksGroup, treeService)

	// Items routes, plus the per-item comment and rating routes.
	itemsGroup := e.Group("/items")
	items.RegisterRoutesWithGroup(itemsGroup, store)
	comments.RegisterItemRoutes(itemsGroup, commentService)

	// Filters routes
	filtersGroup := e.Group("/filters")
	filters.RegisterRoutesWithGroup(filtersGroup, store)

	// Comments routes addressed by comment id
	commentsGroup := e.Group("/comments")
	comments.RegisterRoutesWithGroup(commentsGroup, commentService)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
