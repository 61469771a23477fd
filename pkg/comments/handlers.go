package comments

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	commentService *Service
}

func (h *handler) listComments(c echo.Context) error {
	ctx := c.Request().Context()

	comments := h.commentService.ListComments(ctx, c.Param("id"))

	response := map[string]any{
		"comments": comments,
		"total":    len(comments),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) createComment(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateCommentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.commentService.CreateComment(ctx, CreateCommentOptions{
		ItemID:          c.Param("id"),
		Author:          params.Author,
		Content:         params.Content,
		ParentCommentID: params.ParentCommentID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, comment))
}

func (h *handler) listRatings(c echo.Context) error {
	ctx := c.Request().Context()

	ratings := h.commentService.ListRatings(ctx, c.Param("id"))

	response := map[string]any{
		"ratings": ratings,
		"total":   len(ratings),
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) createRating(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateRatingPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	rating, err := h.commentService.CreateRating(ctx, CreateRatingOptions{
		ItemID:     c.Param("id"),
		Author:     params.Author,
		Content:    params.Content,
		RatingType: params.RatingType,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, rating))
}

func (h *handler) vote(c echo.Context) error {
	ctx := c.Request().Context()

	params := VotePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	comment, err := h.commentService.Vote(ctx, c.Param("id"), params.Vote)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, comment))
}

func (h *handler) deleteComment(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.commentService.DeleteComment(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
