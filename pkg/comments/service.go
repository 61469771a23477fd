// Package comments stores discussion comments and article ratings keyed by
// item id. It is a collaborator of the content model, not part of it: the
// only thing it knows about items is their id.
package comments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/errcodes"
	"github.com/kastennotes/kasten/pkg/kvstore"
	"github.com/kastennotes/kasten/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const (
	keyComments = "comments"
	keyRatings  = "article_ratings"
)

type Service struct {
	mu    sync.RWMutex
	kv    *kvstore.Store
	store *contentstore.Store
	log   logger.Logger

	comments map[string][]*models.Comment
	ratings  map[string][]*models.Comment
}

func NewService(kv *kvstore.Store, store *contentstore.Store) *Service {
	return &Service{
		kv:       kv,
		store:    store,
		log:      logger.New(),
		comments: map[string][]*models.Comment{},
		ratings:  map[string][]*models.Comment{},
	}
}

// Load hydrates comments and ratings from the key-value store. Unreadable
// payloads reset to empty with a warning.
func (svc *Service) Load(ctx context.Context) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, col := range []struct {
		key  string
		dest *map[string][]*models.Comment
	}{
		{keyComments, &svc.comments},
		{keyRatings, &svc.ratings},
	} {
		data, ok, err := svc.kv.Load(ctx, col.key)
		if err != nil {
			return errors.WithStack(err)
		}
		if !ok {
			continue
		}
		decoded := map[string][]*models.Comment{}
		if err := json.Unmarshal([]byte(data), &decoded); err != nil {
			svc.log.Err(err).Warn("discarding unreadable collection", logger.Data{"key": col.key})
			decoded = map[string][]*models.Comment{}
		}
		*col.dest = decoded
	}

	return nil
}

// ListComments returns an item's comments oldest first.
func (svc *Service) ListComments(_ context.Context, itemID string) []*models.Comment {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return sortedByTime(svc.comments[itemID])
}

// ListRatings returns an item's ratings oldest first.
func (svc *Service) ListRatings(_ context.Context, itemID string) []*models.Comment {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return sortedByTime(svc.ratings[itemID])
}

func sortedByTime(comments []*models.Comment) []*models.Comment {
	out := append([]*models.Comment(nil), comments...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type CreateCommentOptions struct {
	ItemID          string
	Author          string
	Content         string
	ParentCommentID *string
}

func (svc *Service) CreateComment(ctx context.Context, opts CreateCommentOptions) (*models.Comment, error) {
	if _, ok := svc.store.FindItem(opts.ItemID); !ok {
		return nil, errcodes.NotFound("Item")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if opts.ParentCommentID != nil {
		if svc.findLocked(svc.comments, *opts.ParentCommentID) == nil {
			return nil, errcodes.NotFound("Parent comment")
		}
	}

	comment := &models.Comment{
		ID:              uuid.New().String(),
		ItemID:          opts.ItemID,
		Author:          opts.Author,
		Content:         opts.Content,
		Timestamp:       time.Now(),
		IsReply:         opts.ParentCommentID != nil,
		ParentCommentID: opts.ParentCommentID,
	}
	svc.comments[opts.ItemID] = append(svc.comments[opts.ItemID], comment)

	if err := svc.persistLocked(ctx, keyComments); err != nil {
		return nil, persistError(ctx, err)
	}
	return comment, nil
}

type CreateRatingOptions struct {
	ItemID     string
	Author     string
	Content    string
	RatingType string
}

func (svc *Service) CreateRating(ctx context.Context, opts CreateRatingOptions) (*models.Comment, error) {
	item, ok := svc.store.FindItem(opts.ItemID)
	if !ok {
		return nil, errcodes.NotFound("Item")
	}
	if item.Type != models.ItemTypeArticle {
		return nil, errcodes.ValidationError("Only articles can be rated.")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	ratingType := opts.RatingType
	rating := &models.Comment{
		ID:         uuid.New().String(),
		ItemID:     opts.ItemID,
		Author:     opts.Author,
		Content:    opts.Content,
		Timestamp:  time.Now(),
		IsRating:   true,
		RatingType: &ratingType,
	}
	svc.ratings[opts.ItemID] = append(svc.ratings[opts.ItemID], rating)

	if err := svc.persistLocked(ctx, keyRatings); err != nil {
		return nil, persistError(ctx, err)
	}
	return rating, nil
}

// Vote applies the local user's vote to a comment. Repeating the current
// vote retracts it; the opposite vote flips it.
func (svc *Service) Vote(ctx context.Context, commentID, vote string) (*models.Comment, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	itemID, idx := svc.locateLocked(svc.comments, commentID)
	if idx < 0 {
		return nil, errcodes.NotFound("Comment")
	}

	// Clone and replace so comment pointers already handed to readers are
	// never mutated under them.
	comment := svc.comments[itemID][idx].Clone()

	switch {
	case comment.UserVote != nil && *comment.UserVote == vote:
		if vote == models.VoteUp {
			comment.Likes--
		} else {
			comment.Dislikes--
		}
		comment.UserVote = nil
	case comment.UserVote != nil:
		if vote == models.VoteUp {
			comment.Likes++
			comment.Dislikes--
		} else {
			comment.Likes--
			comment.Dislikes++
		}
		v := vote
		comment.UserVote = &v
	default:
		if vote == models.VoteUp {
			comment.Likes++
		} else {
			comment.Dislikes++
		}
		v := vote
		comment.UserVote = &v
	}
	svc.comments[itemID][idx] = comment

	if err := svc.persistLocked(ctx, keyComments); err != nil {
		return nil, persistError(ctx, err)
	}
	return comment, nil
}

// DeleteComment removes a comment and any replies pointing at it.
func (svc *Service) DeleteComment(ctx context.Context, commentID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	target := svc.findLocked(svc.comments, commentID)
	if target == nil {
		return errcodes.NotFound("Comment")
	}

	kept := make([]*models.Comment, 0, len(svc.comments[target.ItemID]))
	for _, c := range svc.comments[target.ItemID] {
		if c.ID == commentID {
			continue
		}
		if c.ParentCommentID != nil && *c.ParentCommentID == commentID {
			continue
		}
		kept = append(kept, c)
	}
	svc.comments[target.ItemID] = kept

	if err := svc.persistLocked(ctx, keyComments); err != nil {
		return persistError(ctx, err)
	}
	return nil
}

// DeleteForItem drops all comments and ratings of an item, e.g. after the
// item itself is deleted.
func (svc *Service) DeleteForItem(ctx context.Context, itemID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, hadComments := svc.comments[itemID]
	_, hadRatings := svc.ratings[itemID]
	delete(svc.comments, itemID)
	delete(svc.ratings, itemID)

	if hadComments {
		if err := svc.persistLocked(ctx, keyComments); err != nil {
			return persistError(ctx, err)
		}
	}
	if hadRatings {
		if err := svc.persistLocked(ctx, keyRatings); err != nil {
			return persistError(ctx, err)
		}
	}
	return nil
}

// locateLocked returns the item id and slice index of a comment, or -1 when
// absent.
func (svc *Service) locateLocked(collection map[string][]*models.Comment, commentID string) (string, int) {
	for itemID, list := range collection {
		for i, c := range list {
			if c.ID == commentID {
				return itemID, i
			}
		}
	}
	return "", -1
}

func (svc *Service) findLocked(collection map[string][]*models.Comment, commentID string) *models.Comment {
	for _, list := range collection {
		for _, c := range list {
			if c.ID == commentID {
				return c
			}
		}
	}
	return nil
}

func (svc *Service) persistLocked(ctx context.Context, key string) error {
	var collection map[string][]*models.Comment
	if key == keyComments {
		collection = svc.comments
	} else {
		collection = svc.ratings
	}

	data, err := json.Marshal(collection)
	if err != nil {
		return errors.WithStack(err)
	}
	return svc.kv.Save(ctx, key, string(data))
}

func persistError(ctx context.Context, err error) error {
	logger.FromContext(ctx).Err(err).Error("persist failed")
	return errcodes.PersistFailed()
}
