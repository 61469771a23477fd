package comments

type CreateCommentPayload struct {
	Author          string  `json:"author" mod:"trim" validate:"required,min=1,max=100"`
	Content         string  `json:"content" mod:"trim" validate:"required,min=1,max=5000"`
	ParentCommentID *string `json:"parentCommentId,omitempty"`
}

type CreateRatingPayload struct {
	Author     string `json:"author" mod:"trim" validate:"required,min=1,max=100"`
	Content    string `json:"content,omitempty" mod:"trim" validate:"omitempty,max=5000"`
	RatingType string `json:"ratingType" validate:"required,oneof=like dislike"`
}

type VotePayload struct {
	Vote string `json:"vote" validate:"required,oneof=up down"`
}
