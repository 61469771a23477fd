package books

type CreateBookPayload struct {
	Name        string  `json:"name" mod:"trim" validate:"required,min=1,max=300"`
	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
}

type UpdateBookPayload struct {
	Name        *string `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
}

type SelectBookPayload struct {
	BookID string `json:"bookId" validate:"required"`
}

type ListChildrenQuery struct {
	ParentID *string `query:"parentId" json:"parentId,omitempty"`
}
