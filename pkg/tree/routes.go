package tree

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers tree routes on the books group.
func RegisterRoutesWithGroup(g *echo.Group, svc *Service) {
	h := &handler{treeService: svc}

	g.GET("/:id/tree", h.rows)
	g.POST("/:id/tree/toggle", h.toggle)
}
