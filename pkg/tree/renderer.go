// Package tree projects a book's item map into the flat, ordered row list
// the sidebar renders. The whole tree is emitted up front, collapsed
// subtrees included, with hidden flags; expanding or collapsing a node is a
// visibility flip over the precomputed rows rather than a re-traversal of
// the model.
package tree

import (
	"github.com/kastennotes/kasten/pkg/contentstore"
	"github.com/kastennotes/kasten/pkg/models"
)

// Row is one renderable line of the tree. Indent is the node's depth, used
// both for visual nesting and for the descendant-containment scan during
// expand/collapse.
type Row struct {
	ItemID      string `json:"itemId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Indent      int    `json:"indent"`
	Expanded    bool   `json:"expanded"`
	Hidden      bool   `json:"hidden"`
	HasChildren bool   `json:"hasChildren"`
}

// ExpansionState records explicit expand/collapse overrides by item id.
// Items without an override fall back to their autoExpand flag.
type ExpansionState map[string]bool

func (e ExpansionState) expanded(item *models.Item) bool {
	if v, ok := e[item.ID]; ok {
		return v
	}
	return item.AutoExpand
}

// Render walks the book's forest depth-first in child order and emits one
// row per item. Rows under a collapsed ancestor are emitted hidden.
func Render(store *contentstore.Store, bookID string, exp ExpansionState) []*Row {
	if exp == nil {
		exp = ExpansionState{}
	}
	rows := []*Row{}
	for _, item := range store.Children(bookID, nil) {
		rows = renderSubtree(store, item, exp, 0, false, rows)
	}
	return rows
}

func renderSubtree(store *contentstore.Store, item *models.Item, exp ExpansionState, indent int, hidden bool, rows []*Row) []*Row {
	children := store.Children(item.BookID, &item.ID)
	expanded := exp.expanded(item)

	rows = append(rows, &Row{
		ItemID:      item.ID,
		Name:        item.Name,
		Type:        item.Type,
		Indent:      indent,
		Expanded:    expanded,
		Hidden:      hidden,
		HasChildren: len(children) > 0,
	})

	childHidden := hidden || !expanded
	for _, child := range children {
		rows = renderSubtree(store, child, exp, indent+1, childHidden, rows)
	}
	return rows
}

// Toggle flips the expansion of the row with itemID and rewrites the hidden
// flags of its contiguous descendant run: the rows immediately following it
// whose indent is strictly greater, up to the first row at the same or a
// shallower indent. Returns false when the item has no row.
func Toggle(rows []*Row, itemID string, exp ExpansionState) bool {
	idx := -1
	for i, row := range rows {
		if row.ItemID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	row := rows[idx]
	row.Expanded = !row.Expanded
	exp[itemID] = row.Expanded

	// Visibility of each row in the run depends on the chain of expanded
	// ancestors above it; track that chain with a stack keyed by indent.
	visible := map[int]bool{row.Indent: !row.Hidden && row.Expanded}
	for i := idx + 1; i < len(rows); i++ {
		r := rows[i]
		if r.Indent <= row.Indent {
			break
		}
		r.Hidden = !visible[r.Indent-1]
		visible[r.Indent] = !r.Hidden && r.Expanded
	}
	return true
}
