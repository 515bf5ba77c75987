package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBookIn_NewBook(t *testing.T) {
	t.Run("copies all input fields", func(t *testing.T) {
		in := BookIn{Title: ptr("Book 1"), Description: ptr("Detective"), Pages: ptr(300)}

		book := in.NewBook()

		assert.Zero(t, book.ID)
		assert.Equal(t, "Book 1", book.Title)
		require.NotNil(t, book.Description)
		assert.Equal(t, "Detective", *book.Description)
		assert.Equal(t, 300, book.Pages)
		assert.True(t, book.CreatedAt.IsZero())
	})

	t.Run("keeps description nil when omitted", func(t *testing.T) {
		in := BookIn{Title: ptr("Book 1"), Pages: ptr(0)}

		book := in.NewBook()

		assert.Nil(t, book.Description)
		assert.Equal(t, 0, book.Pages)
	})
}

func TestBookURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000/book/7", BookURL("http://localhost:8000", 7))
	assert.Equal(t, "https://api.example.com/book/12", BookURL("https://api.example.com/", 12))
}

func TestBook_Out(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	modified := created.Add(time.Hour)
	book := &Book{
		ID:             3,
		Title:          "Book 1",
		Pages:          300,
		CreatedAt:      created,
		LastModifiedAt: modified,
	}

	t.Run("omits last_modified_at when not requested", func(t *testing.T) {
		out := book.Out("http://example.com", false)

		body, err := json.Marshal(out)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))

		assert.NotContains(t, payload, "last_modified_at")
		assert.Contains(t, payload, "created_at")
		assert.Contains(t, payload, "description")
		assert.Nil(t, payload["description"])
		assert.Equal(t, "http://example.com/book/3", payload["url"])
		assert.Equal(t, float64(3), payload["id"])
	})

	t.Run("includes last_modified_at when requested", func(t *testing.T) {
		out := book.Out("http://example.com", true)

		require.NotNil(t, out.LastModifiedAt)
		assert.True(t, modified.Equal(*out.LastModifiedAt))
	})
}
