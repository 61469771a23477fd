package models

import "time"

// Vote values for comments and rating types for article ratings.
const (
	VoteUp   = "up"
	VoteDown = "down"

	RatingTypeLike    = "like"
	RatingTypeDislike = "dislike"
)

// Comment is attached to an item by id. Comments only need the item id as a
// foreign key; they never reach into the content model. A comment with a
// non-nil ParentCommentID is a reply. Rating comments carry a RatingType and
// are stored separately from discussion comments.
type Comment struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"itemId"`
	Author          string    `json:"author"`
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	Likes           int       `json:"likes"`
	Dislikes        int       `json:"dislikes"`
	UserVote        *string   `json:"userVote"`
	IsRating        bool      `json:"isRating,omitempty"`
	RatingType      *string   `json:"ratingType,omitempty"`
	IsReply         bool      `json:"isReply,omitempty"`
	ParentCommentID *string   `json:"parentCommentId,omitempty"`
}

// Clone returns a deep copy of the comment.
func (c *Comment) Clone() *Comment {
	clone := *c
	clone.UserVote = cloneStringPtr(c.UserVote)
	clone.RatingType = cloneStringPtr(c.RatingType)
	clone.ParentCommentID = cloneStringPtr(c.ParentCommentID)
	return &clone
}
