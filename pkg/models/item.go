package models

import "time"

// Item types, in the order they sort within a tree level.
const (
	ItemTypeCategory = "category"
	ItemTypeFolder   = "folder"
	ItemTypeArticle  = "article"
	ItemTypeFile     = "file"
)

// Article statuses.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// typeRanks drives the fixed type precedence used when ordering children:
// categories first, then folders, then articles, then files.
var typeRanks = map[string]int{
	ItemTypeCategory: 0,
	ItemTypeFolder:   1,
	ItemTypeArticle:  2,
	ItemTypeFile:     3,
}

// TypeRank returns the sort precedence for an item type. Unknown types sort
// last.
func TypeRank(itemType string) int {
	if rank, ok := typeRanks[itemType]; ok {
		return rank
	}
	return len(typeRanks)
}

// ValidItemType reports whether the given string is a known item type.
func ValidItemType(itemType string) bool {
	_, ok := typeRanks[itemType]
	return ok
}

// IsContainerType reports whether items of this type can hold children.
func IsContainerType(itemType string) bool {
	return itemType == ItemTypeCategory || itemType == ItemTypeFolder
}

// Item is a node in a book's content tree: a category, folder, article, or
// file. All variants share the envelope fields; variant-specific fields are
// optional and omitted from JSON when unset. ParentID is nil for top-level
// nodes and otherwise references a category or folder in the same book.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	BookID    string    `json:"bookId"`
	ParentID  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Category fields.
	Description *string `json:"description,omitempty"`
	IsPrivate   bool    `json:"isPrivate,omitempty"`
	IsPinned    bool    `json:"isPinned,omitempty"`
	IconType    *string `json:"iconType,omitempty"`

	// Category and folder field.
	AutoExpand bool `json:"autoExpand,omitempty"`

	// Article fields.
	Status  string  `json:"status,omitempty"`
	Content string  `json:"content,omitempty"`
	Notes   *string `json:"notes,omitempty"`

	// File fields. Content doubles as inline file data (data URL or base64)
	// when StoragePath is unset.
	FileType    string  `json:"fileType,omitempty"`
	FileSize    int64   `json:"fileSize,omitempty"`
	StoragePath *string `json:"storagePath,omitempty"`
	URL         *string `json:"url,omitempty"`
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	clone := *i
	clone.ParentID = cloneStringPtr(i.ParentID)
	clone.Description = cloneStringPtr(i.Description)
	clone.IconType = cloneStringPtr(i.IconType)
	clone.Notes = cloneStringPtr(i.Notes)
	clone.StoragePath = cloneStringPtr(i.StoragePath)
	clone.URL = cloneStringPtr(i.URL)
	return &clone
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
