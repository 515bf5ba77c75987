package entities

import (
	"strconv"
	"strings"
	"time"
)

// Book is the only persisted entity. Timestamps are owned by the server:
// both are filled from the same clock reading on insert, and
// LastModifiedAt is reassigned on every update.
type Book struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    *string   `json:"description"`
	Pages          int       `gorm:"not null" json:"pages"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime;not null" json:"created_at"`
	LastModifiedAt time.Time `gorm:"column:last_modified_at;autoUpdateTime;not null" json:"last_modified_at"`
}

func (Book) TableName() string {
	return "books"
}

// BookIn is what clients may send on create and update.
// Pointers let binding tell a missing field apart from a zero value.
type BookIn struct {
	Title       *string `json:"title" binding:"required"`
	Description *string `json:"description"`
	Pages       *int    `json:"pages" binding:"required"`
}

// NewBook builds an unsaved row from the input projection.
func (in BookIn) NewBook() *Book {
	book := &Book{Description: in.Description}
	if in.Title != nil {
		book.Title = *in.Title
	}
	if in.Pages != nil {
		book.Pages = *in.Pages
	}
	return book
}

// BookOut is the representation returned to clients.
// LastModifiedAt is nil on the create response.
type BookOut struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Pages          int        `json:"pages"`
	CreatedAt      time.Time  `json:"created_at"`
	LastModifiedAt *time.Time `json:"last_modified_at,omitempty"`
	URL            string     `json:"url"`
}

// BookURL returns the canonical locator of a book under baseURL.
func BookURL(baseURL string, id uint) string {
	return strings.TrimRight(baseURL, "/") + "/book/" + strconv.FormatUint(uint64(id), 10)
}

// Out projects the row for clients. withLastModified controls whether
// last_modified_at is part of the payload.
func (b *Book) Out(baseURL string, withLastModified bool) BookOut {
	out := BookOut{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Pages:       b.Pages,
		CreatedAt:   b.CreatedAt,
		URL:         BookURL(baseURL, b.ID),
	}
	if withLastModified {
		lastModified := b.LastModifiedAt
		out.LastModifiedAt = &lastModified
	}
	return out
}
