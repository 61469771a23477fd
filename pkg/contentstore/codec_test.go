package contentstore

import (
	"testing"
	"time"

	"github.com/kastennotes/kasten/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooksRoundTrip(t *testing.T) {
	t.Parallel()

	books := map[string]*models.Book{
		"b1": {ID: "b1", Name: "First", CreatedAt: time.Unix(100, 0).UTC()},
		"b2": {ID: "b2", Name: "Second", CreatedAt: time.Unix(200, 0).UTC()},
	}

	data, err := encodeBooks(books)
	require.NoError(t, err)

	decoded, err := decodeBooks(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "First", decoded["b1"].Name)
	assert.Equal(t, "Second", decoded["b2"].Name)
}

func TestDecodeBooksLegacyPairs(t *testing.T) {
	t.Parallel()

	decoded, err := decodeBooks(`[["b1",{"name":"First"}],["b2",{"id":"b2","name":"Second"}]]`)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "b1", decoded["b1"].ID)
	assert.Equal(t, "First", decoded["b1"].Name)
	assert.Equal(t, "Second", decoded["b2"].Name)
}

func TestDecodeBooksLegacyObject(t *testing.T) {
	t.Parallel()

	decoded, err := decodeBooks(`{"b1":{"name":"First"}}`)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "b1", decoded["b1"].ID)
}

func TestDecodeBooksUnrecognized(t *testing.T) {
	t.Parallel()

	_, err := decodeBooks(`42`)
	assert.Error(t, err)
}

func TestItemsRoundTrip(t *testing.T) {
	t.Parallel()

	parent := "i1"
	items := map[string]map[string]*models.Item{
		"b1": {
			"i1": {ID: "i1", BookID: "b1", Name: "Cat", Type: models.ItemTypeCategory},
			"i2": {ID: "i2", BookID: "b1", Name: "Note", Type: models.ItemTypeArticle, ParentID: &parent},
		},
	}

	data, err := encodeItems(items)
	require.NoError(t, err)

	decoded, err := decodeItems(data)
	require.NoError(t, err)
	require.Len(t, decoded["b1"], 2)
	require.NotNil(t, decoded["b1"]["i2"].ParentID)
	assert.Equal(t, "i1", *decoded["b1"]["i2"].ParentID)
}

func TestDecodeItemsEmptyArray(t *testing.T) {
	t.Parallel()

	decoded, err := decodeItems(`[]`)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeItemsLegacyFlatRecords(t *testing.T) {
	t.Parallel()

	decoded, err := decodeItems(`[{"id":"i1","bookId":"b1","name":"Cat","type":"category"}]`)
	require.NoError(t, err)
	require.Len(t, decoded["b1"], 1)
	assert.Equal(t, "Cat", decoded["b1"]["i1"].Name)
}

func TestDecodeItemsLegacyObjectOfObjects(t *testing.T) {
	t.Parallel()

	decoded, err := decodeItems(`{"b1":{"i1":{"name":"Cat","type":"category"}}}`)
	require.NoError(t, err)
	require.Len(t, decoded["b1"], 1)
	assert.Equal(t, "i1", decoded["b1"]["i1"].ID)
	assert.Equal(t, "b1", decoded["b1"]["i1"].BookID)
}

func TestFiltersRoundTrip(t *testing.T) {
	t.Parallel()

	filters := map[string]*models.Filter{
		"work": {ID: "work", Name: "Work", BookIDs: []string{"b1"}},
	}

	data, err := encodeFilters(filters)
	require.NoError(t, err)

	decoded, err := decodeFilters(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, []string{"b1"}, decoded["work"].BookIDs)
}

func TestDecodeFiltersLegacyNameToBookIDs(t *testing.T) {
	t.Parallel()

	decoded, err := decodeFilters(`{"Work":["b1","b2"]}`)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "Work", decoded["Work"].Name)
	assert.Equal(t, []string{"b1", "b2"}, decoded["Work"].BookIDs)
}
