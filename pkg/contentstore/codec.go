package contentstore

import (
	"sort"

	"github.com/kastennotes/kasten/pkg/models"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Serialized shapes:
//
//   books      -> [BookRecord, ...]
//   categories -> [[bookID, [[itemID, ItemRecord], ...]], ...]
//   filters    -> {filterID: FilterRecord, ...}
//
// The decoders additionally accept shapes written by older versions: plain
// objects keyed by id, arrays of [id, record] pairs, and flat record arrays
// where each item carries its own bookId. Anything unrecognized decodes to
// the empty collection instead of failing the load path.

func encodeBooks(books map[string]*models.Book) (string, error) {
	ordered := make([]*models.Book, 0, len(books))
	for _, b := range books {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	data, err := json.Marshal(ordered)
	return string(data), errors.WithStack(err)
}

func decodeBooks(data string) (map[string]*models.Book, error) {
	books := map[string]*models.Book{}
	if data == "" {
		return books, nil
	}

	// Current shape: flat array of records.
	var records []*models.Book
	if err := json.Unmarshal([]byte(data), &records); err == nil {
		valid := true
		for _, b := range records {
			if b == nil || b.ID == "" {
				valid = false
				break
			}
		}
		if valid {
			for _, b := range records {
				books[b.ID] = b
			}
			return books, nil
		}
	}

	// Legacy shape: array of [id, record] pairs.
	var pairs [][2]json.RawMessage
	if err := json.Unmarshal([]byte(data), &pairs); err == nil {
		decoded := map[string]*models.Book{}
		valid := len(pairs) > 0
		for _, pair := range pairs {
			var id string
			book := &models.Book{}
			if json.Unmarshal(pair[0], &id) != nil || json.Unmarshal(pair[1], book) != nil || id == "" {
				valid = false
				break
			}
			if book.ID == "" {
				book.ID = id
			}
			decoded[id] = book
		}
		if valid {
			return decoded, nil
		}
	}

	// Legacy shape: plain object keyed by id.
	var byID map[string]*models.Book
	if err := json.Unmarshal([]byte(data), &byID); err == nil {
		for id, b := range byID {
			if b == nil {
				continue
			}
			if b.ID == "" {
				b.ID = id
			}
			books[b.ID] = b
		}
		return books, nil
	}

	return nil, errors.New("unrecognized books payload")
}

func encodeItems(items map[string]map[string]*models.Item) (string, error) {
	bookIDs := make([]string, 0, len(items))
	for bookID := range items {
		bookIDs = append(bookIDs, bookID)
	}
	sort.Strings(bookIDs)

	outer := make([]interface{}, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		byID := items[bookID]

		itemIDs := make([]string, 0, len(byID))
		for itemID := range byID {
			itemIDs = append(itemIDs, itemID)
		}
		sort.Strings(itemIDs)

		inner := make([]interface{}, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			inner = append(inner, []interface{}{itemID, byID[itemID]})
		}
		outer = append(outer, []interface{}{bookID, inner})
	}

	data, err := json.Marshal(outer)
	return string(data), errors.WithStack(err)
}

func decodeItems(data string) (map[string]map[string]*models.Item, error) {
	items := map[string]map[string]*models.Item{}
	if data == "" {
		return items, nil
	}

	// Current shape: array of [bookID, [[itemID, record], ...]] pairs.
	var outer [][2]json.RawMessage
	if err := json.Unmarshal([]byte(data), &outer); err == nil {
		if len(outer) == 0 {
			return items, nil
		}
		decoded := map[string]map[string]*models.Item{}
		valid := true
		for _, pair := range outer {
			var bookID string
			var inner [][2]json.RawMessage
			if json.Unmarshal(pair[0], &bookID) != nil || json.Unmarshal(pair[1], &inner) != nil || bookID == "" {
				valid = false
				break
			}
			byID := map[string]*models.Item{}
			for _, itemPair := range inner {
				var itemID string
				item := &models.Item{}
				if json.Unmarshal(itemPair[0], &itemID) != nil || json.Unmarshal(itemPair[1], item) != nil || itemID == "" {
					valid = false
					break
				}
				if item.ID == "" {
					item.ID = itemID
				}
				if item.BookID == "" {
					item.BookID = bookID
				}
				byID[item.ID] = item
			}
			if !valid {
				break
			}
			decoded[bookID] = byID
		}
		if valid {
			return decoded, nil
		}
	}

	// Legacy shape: flat array of records, each carrying its own bookId.
	var records []*models.Item
	if err := json.Unmarshal([]byte(data), &records); err == nil {
		decoded := map[string]map[string]*models.Item{}
		valid := len(records) > 0
		for _, item := range records {
			if item == nil || item.ID == "" || item.BookID == "" {
				valid = false
				break
			}
			if decoded[item.BookID] == nil {
				decoded[item.BookID] = map[string]*models.Item{}
			}
			decoded[item.BookID][item.ID] = item
		}
		if valid {
			return decoded, nil
		}
	}

	// Legacy shape: object of objects keyed by bookID then itemID.
	var byBook map[string]map[string]*models.Item
	if err := json.Unmarshal([]byte(data), &byBook); err == nil {
		for bookID, inner := range byBook {
			byID := map[string]*models.Item{}
			for itemID, item := range inner {
				if item == nil {
					continue
				}
				if item.ID == "" {
					item.ID = itemID
				}
				if item.BookID == "" {
					item.BookID = bookID
				}
				byID[item.ID] = item
			}
			items[bookID] = byID
		}
		return items, nil
	}

	return nil, errors.New("unrecognized items payload")
}

func encodeFilters(filters map[string]*models.Filter) (string, error) {
	data, err := json.Marshal(filters)
	return string(data), errors.WithStack(err)
}

func decodeFilters(data string) (map[string]*models.Filter, error) {
	filters := map[string]*models.Filter{}
	if data == "" {
		return filters, nil
	}

	// Current shape: object of filter records keyed by id.
	var byID map[string]*models.Filter
	if err := json.Unmarshal([]byte(data), &byID); err == nil {
		valid := true
		for _, f := range byID {
			if f == nil || f.Name == "" {
				valid = false
				break
			}
		}
		if valid {
			for id, f := range byID {
				if f.ID == "" {
					f.ID = id
				}
				filters[f.ID] = f
			}
			return filters, nil
		}
	}

	// Legacy shape: object mapping filter name to an array of book ids.
	var byName map[string][]string
	if err := json.Unmarshal([]byte(data), &byName); err == nil {
		for name, bookIDs := range byName {
			f := &models.Filter{
				ID:      name,
				Name:    name,
				BookIDs: bookIDs,
			}
			filters[f.ID] = f
		}
		return filters, nil
	}

	return nil, errors.New("unrecognized filters payload")
}
