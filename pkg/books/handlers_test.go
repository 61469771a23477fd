package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forgetterFunc func(bookID string)

func (f forgetterFunc) Forget(bookID string) {
	f(bookID)
}

func TestDeleteBookDropsExpansionState(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	ctx := context.Background()

	book, err := NewService(store).CreateBook(ctx, CreateBookOptions{Name: "Doomed"})
	require.NoError(t, err)

	forgotten := []string{}
	e := echo.New()
	RegisterRoutesWithGroup(e.Group("/books"), store, forgetterFunc(func(bookID string) {
		forgotten = append(forgotten, bookID)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/books/"+book.ID, nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, []string{book.ID}, forgotten)

	// A failed delete doesn't forget anything.
	req = httptest.NewRequest(http.MethodDelete, "/books/missing", nil)
	rr = httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	require.NotEqual(t, http.StatusNoContent, rr.Code)
	assert.Len(t, forgotten, 1)
}
