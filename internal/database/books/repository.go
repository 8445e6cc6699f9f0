// Package books provides the GORM/SQLite implementation of store.BookStore.
//
// Identifiers are canonical lowercase UUID strings. Any other spelling,
// including forms uuid.Parse accepts (uppercase, braces, urn:uuid:, no
// dashes), is reported as store.ErrInvalidID. Comments live in their own table so that
// appending one is a single INSERT, which keeps concurrent appends lossless.
//
// # Usage
//
//	repo := books.NewRepository(db.DB)
//	book, err := repo.CreateBook(ctx, "Dune")
package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/store"
)

var _ store.BookStore = (*Repository)(nil)

// Repository handles all book and comment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// canonicalID accepts only the exact form ids are stored in, so a book is
// reachable under a single identifier.
func canonicalID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return id, nil
}

func preloadComments(db *gorm.DB) *gorm.DB {
	return db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("book_comments.id ASC")
	})
}

// ListBooks returns every book with its comment count, oldest first.
func (r *Repository) ListBooks(ctx context.Context) ([]entities.BookSummary, error) {
	summaries := make([]entities.BookSummary, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.Book{}).
		Select("books.id AS id, books.title AS title, COUNT(book_comments.id) AS comment_count").
		Joins("LEFT JOIN book_comments ON book_comments.book_id = books.id").
		Group("books.id, books.title, books.created_at").
		Order("books.created_at ASC, books.id ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return summaries, nil
}

// GetBook retrieves a book by its ID with comments in insertion order.
func (r *Repository) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	bookID, err := canonicalID(id)
	if err != nil {
		return nil, err
	}
	return r.findBook(r.db.WithContext(ctx), bookID)
}

func (r *Repository) findBook(db *gorm.DB, bookID string) (*entities.Book, error) {
	var book entities.Book
	err := preloadComments(db).First(&book, "id = ?", bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", bookID, err)
	}
	return &book, nil
}

// CreateBook persists a new book with an empty comment thread.
func (r *Repository) CreateBook(ctx context.Context, title string) (*entities.Book, error) {
	book := &entities.Book{Title: title}
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

// InsertBooks stores fully-formed books in one transaction. Preset IDs are
// kept (after validation), missing ones are generated. Creation timestamps
// follow slice order so listing reproduces it.
func (r *Repository) InsertBooks(ctx context.Context, books []*entities.Book) error {
	if len(books) == 0 {
		return nil
	}

	base := time.Now()
	for i, book := range books {
		if book.ID != "" {
			id, err := canonicalID(book.ID)
			if err != nil {
				return err
			}
			book.ID = id
			for j := range book.Comments {
				book.Comments[j].BookID = id
			}
		}
		if book.CreatedAt.IsZero() {
			book.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, book := range books {
			if err := tx.Create(book).Error; err != nil {
				return fmt.Errorf("insert book %q: %w", book.Title, err)
			}
		}
		return nil
	})
}

// AppendComment adds comment to the end of the book's thread and returns the
// updated book. The insert only matches an existing book, so it doubles as
// the existence check.
func (r *Repository) AppendComment(ctx context.Context, id, comment string) (*entities.Book, error) {
	bookID, err := canonicalID(id)
	if err != nil {
		return nil, err
	}

	var book *entities.Book
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Exec(
			"INSERT INTO book_comments (book_id, text, created_at) SELECT id, ?, ? FROM books WHERE id = ?",
			comment, now, bookID,
		)
		if res.Error != nil {
			return fmt.Errorf("append comment to %s: %w", bookID, res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Update("updated_at", now).Error; err != nil {
			return fmt.Errorf("touch book %s: %w", bookID, err)
		}

		var err error
		book, err = r.findBook(tx, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book and its comments.
func (r *Repository) DeleteBook(ctx context.Context, id string) error {
	bookID, err := canonicalID(id)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", bookID).Delete(&entities.BookComment{}).Error; err != nil {
			return fmt.Errorf("delete comments of %s: %w", bookID, err)
		}
		res := tx.Where("id = ?", bookID).Delete(&entities.Book{})
		if res.Error != nil {
			return fmt.Errorf("delete book %s: %w", bookID, res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// DeleteAllBooks removes every book and comment, returning the number of books removed.
func (r *Repository) DeleteAllBooks(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.BookComment{}).Error; err != nil {
			return fmt.Errorf("delete all comments: %w", err)
		}
		res := tx.Where("1 = 1").Delete(&entities.Book{})
		if res.Error != nil {
			return fmt.Errorf("delete all books: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

// Ping verifies the underlying connection is usable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close is a no-op: the connection belongs to database.Database.
func (r *Repository) Close() error {
	return nil
}
