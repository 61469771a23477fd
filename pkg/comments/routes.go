package comments

import (
	"github.com/labstack/echo/v4"
)

// RegisterItemRoutes registers the per-item comment and rating routes on
// the items group.
func RegisterItemRoutes(g *echo.Group, svc *Service) {
	h := &handler{commentService: svc}

	g.GET("/:id/comments", h.listComments)
	g.POST("/:id/comments", h.createComment)
	g.GET("/:id/ratings", h.listRatings)
	g.POST("/:id/ratings", h.createRating)
}

// RegisterRoutesWithGroup registers the comment-id routes.
func RegisterRoutesWithGroup(g *echo.Group, svc *Service) {
	h := &handler{commentService: svc}

	g.POST("/:id/vote", h.vote)
	g.DELETE("/:id", h.deleteComment)
}
