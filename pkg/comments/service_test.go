package comments

import (
	"context"
	"database/sql"
	"testing"

	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/errcodes"
	"github.com/kastennotes/kasten/pkg/kvstore"
	"github.com/kastennotes/kasten/pkg/migrations"
	"github.com/kastennotes/kasten/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestService(t *testing.T) (*Service, *kvstore.Store, *contentstore.Store) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	kv := kvstore.New(db)
	store := contentstore.New(kv)
	require.NoError(t, store.Load(context.Background()))

	svc := NewService(kv, store)
	require.NoError(t, svc.Load(context.Background()))
	return svc, kv, store
}

func setupArticle(t *testing.T, store *contentstore.Store) *models.Item {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.PutBook(ctx, &models.Book{ID: "b1", Name: "Book"}))
	article := &models.Item{ID: "a1", BookID: "b1", Name: "Note", Type: models.ItemTypeArticle}
	require.NoError(t, store.PutItem(ctx, article))
	return article
}

func TestCreateCommentRequiresItem(t *testing.T) {
	t.Parallel()
	svc, _, _ := setupTestService(t)

	_, err := svc.CreateComment(context.Background(), CreateCommentOptions{ItemID: "missing", Author: "a", Content: "hi"})
	assert.ErrorIs(t, err, errcodes.NotFound("Item"))
}

func TestCreateCommentAndReply(t *testing.T) {
	t.Parallel()
	svc, kv, store := setupTestService(t)
	article := setupArticle(t, store)
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, CreateCommentOptions{ItemID: article.ID, Author: "ann", Content: "first"})
	require.NoError(t, err)
	assert.False(t, comment.IsReply)

	reply, err := svc.CreateComment(ctx, CreateCommentOptions{ItemID: article.ID, Author: "bob", Content: "second", ParentCommentID: &comment.ID})
	require.NoError(t, err)
	assert.True(t, reply.IsReply)

	listed := svc.ListComments(ctx, article.ID)
	require.Len(t, listed, 2)
	assert.Equal(t, comment.ID, listed[0].ID)

	// Comments survive a reload from storage.
	reloaded := NewService(kv, store)
	require.NoError(t, reloaded.Load(ctx))
	assert.Len(t, reloaded.ListComments(ctx, article.ID), 2)
}

func TestCreateCommentUnknownParent(t *testing.T) {
	t.Parallel()
	svc, _, store := setupTestService(t)
	article := setupArticle(t, store)

	parent := "missing"
	_, err := svc.CreateComment(context.Background(), CreateCommentOptions{ItemID: article.ID, Author: "a", Content: "x", ParentCommentID: &parent})
	assert.ErrorIs(t, err, errcodes.NotFound("Parent comment"))
}

func TestCreateRatingOnlyForArticles(t *testing.T) {
	t.Parallel()
	svc, _, store := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, store.PutBook(ctx, &models.Book{ID: "b1", Name: "Book"}))
	require.NoError(t, store.PutItem(ctx, &models.Item{ID: "f1", BookID: "b1", Name: "Folder", Type: models.ItemTypeFolder}))

	_, err := svc.CreateRating(ctx, CreateRatingOptions{ItemID: "f1", Author: "a", RatingType: models.RatingTypeLike})
	require.Error(t, err)

	require.NoError(t, store.PutItem(ctx, &models.Item{ID: "a1", BookID: "b1", Name: "Note", Type: models.ItemTypeArticle}))
	rating, err := svc.CreateRating(ctx, CreateRatingOptions{ItemID: "a1", Author: "a", RatingType: models.RatingTypeLike})
	require.NoError(t, err)
	assert.True(t, rating.IsRating)
	require.NotNil(t, rating.RatingType)
	assert.Equal(t, models.RatingTypeLike, *rating.RatingType)

	require.Len(t, svc.ListRatings(ctx, "a1"), 1)
	assert.Empty(t, svc.ListComments(ctx, "a1"))
}

func TestVoteSetFlipRetract(t *testing.T) {
	t.Parallel()
	svc, _, store := setupTestService(t)
	article := setupArticle(t, store)
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, CreateCommentOptions{ItemID: article.ID, Author: "a", Content: "x"})
	require.NoError(t, err)

	// Set.
	voted, err := svc.Vote(ctx, comment.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Likes)
	assert.Equal(t, 0, voted.Dislikes)
	require.NotNil(t, voted.UserVote)
	assert.Equal(t, models.VoteUp, *voted.UserVote)

	// Flip.
	voted, err = svc.Vote(ctx, comment.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, voted.Likes)
	assert.Equal(t, 1, voted.Dislikes)
	require.NotNil(t, voted.UserVote)
	assert.Equal(t, models.VoteDown, *voted.UserVote)

	// Repeat retracts.
	voted, err = svc.Vote(ctx, comment.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, voted.Likes)
	assert.Equal(t, 0, voted.Dislikes)
	assert.Nil(t, voted.UserVote)
}

func TestVoteLeavesHandedOutSnapshotsIntact(t *testing.T) {
	t.Parallel()
	svc, _, store := setupTestService(t)
	article := setupArticle(t, store)
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, CreateCommentOptions{ItemID: article.ID, Author: "a", Content: "x"})
	require.NoError(t, err)

	// A reader may still hold this pointer while serializing. Voting must
	// replace the stored comment, not mutate the one already handed out.
	listed := svc.ListComments(ctx, article.ID)
	require.Len(t, listed, 1)
	snapshot := listed[0]

	voted, err := svc.Vote(ctx, comment.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Likes)

	assert.Equal(t, 0, snapshot.Likes)
	assert.Nil(t, snapshot.UserVote)

	listed = svc.ListComments(ctx, article.ID)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, listed[0].Likes)
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	t.Parallel()
	svc, _, store := setupTestService(t)
	article := setupArticle(t, store)
	ctx := context.Background()

	parent, err := svc.CreateComment(ctx, CreateCommentOptions{ItemID: article.ID, Author: "a", Content: "parent"})
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, CreateCommentOptions{ItemID: article.ID, Author: "b", Content: "reply", ParentCommentID: &parent.ID})
	require.NoError(t, err)
	other, err := svc.CreateComment(ctx, CreateCommentOptions{ItemID: article.ID, Author: "c", Content: "unrelated"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComment(ctx, parent.ID))

	listed := svc.ListComments(ctx, article.ID)
	require.Len(t, listed, 1)
	assert.Equal(t, other.ID, listed[0].ID)
}

func TestDeleteForItem(t *testing.T) {
	t.Parallel()
	svc, _, store := setupTestService(t)
	article := setupArticle(t, store)
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentOptions{ItemID: article.ID, Author: "a", Content: "x"})
	require.NoError(t, err)
	_, err = svc.CreateRating(ctx, CreateRatingOptions{ItemID: article.ID, Author: "a", RatingType: models.RatingTypeLike})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteForItem(ctx, article.ID))
	assert.Empty(t, svc.ListComments(ctx, article.ID))
	assert.Empty(t, svc.ListRatings(ctx, article.ID))
}
