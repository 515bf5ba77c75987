// Package books provides the CRUD operations for the Book entity.
//
// Every operation runs inside the caller's database.Session:
//
//	sess, _ := db.Acquire(ctx)
//	defer sess.Release()
//	book, err := books.Create(sess, in)
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// ErrNotFound reports that no book has the requested id. It is the
// absent-row result, not a database failure.
var ErrNotFound = errors.New("book not found")

// Create inserts a new book and returns it with its id and timestamps.
func Create(s *database.Session, in entities.BookIn) (*entities.Book, error) {
	book := in.NewBook()
	err := s.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		return tx.First(book, book.ID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// Read fetches a book by primary key. A missing row yields ErrNotFound.
func Read(s *database.Session, id uint) (*entities.Book, error) {
	db, err := s.DB()
	if err != nil {
		return nil, err
	}
	return find(db, id)
}

// Update overwrites title, description and pages and refreshes
// last_modified_at. The write and the re-read share one transaction, so
// the returned row is the one that was written. A missing row yields
// ErrNotFound and nothing is inserted.
func Update(s *database.Session, id uint, in entities.BookIn) (*entities.Book, error) {
	changes := in.NewBook()

	var book *entities.Book
	err := s.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
			"title":            changes.Title,
			"description":      changes.Description,
			"pages":            changes.Pages,
			"last_modified_at": tx.NowFunc(),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		var err error
		book, err = find(tx, id)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update book %d: %w", id, err)
	}
	return book, nil
}

// Delete removes a book permanently and reports whether a row existed.
// Deleting a missing id is not an error.
func Delete(s *database.Session, id uint) (bool, error) {
	var deleted bool
	err := s.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&entities.Book{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete book %d: %w", id, err)
	}
	return deleted, nil
}

func find(db *gorm.DB, id uint) (*entities.Book, error) {
	var book entities.Book
	err := db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read book %d: %w", id, err)
	}
	return &book, nil
}
