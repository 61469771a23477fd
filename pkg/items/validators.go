package items

type CreateItemPayload struct {
	Type     string  `json:"type" validate:"required,itemtype"`
	BookID   string  `json:"bookId" validate:"required"`
	ParentID *string `json:"parentId,omitempty"`
	Name     string  `json:"name" mod:"trim" validate:"required,min=1,max=300"`

	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
	IsPrivate   bool    `json:"isPrivate,omitempty"`
	IsPinned    bool    `json:"isPinned,omitempty"`
	IconType    *string `json:"iconType,omitempty" validate:"omitempty,max=50"`
	AutoExpand  bool    `json:"autoExpand,omitempty"`

	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	Content *string `json:"content,omitempty"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=5000"`

	FileType    *string `json:"fileType,omitempty" validate:"omitempty,max=100"`
	FileSize    *int64  `json:"fileSize,omitempty" validate:"omitempty,min=0"`
	StoragePath *string `json:"storagePath,omitempty" validate:"omitempty,max=1000"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url"`
}

type UpdateItemPayload struct {
	Name     *string `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1,max=300"`
	ParentID *string `json:"parentId,omitempty"`

	Description *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
	IsPrivate   *bool   `json:"isPrivate,omitempty"`
	IsPinned    *bool   `json:"isPinned,omitempty"`
	IconType    *string `json:"iconType,omitempty" validate:"omitempty,max=50"`
	AutoExpand  *bool   `json:"autoExpand,omitempty"`

	Status  *string `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	Content *string `json:"content,omitempty"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=5000"`

	FileType    *string `json:"fileType,omitempty" validate:"omitempty,max=100"`
	FileSize    *int64  `json:"fileSize,omitempty" validate:"omitempty,min=0"`
	StoragePath *string `json:"storagePath,omitempty" validate:"omitempty,max=1000"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url"`
}
