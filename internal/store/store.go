// Package store defines the persistence contract for books.
//
// Two implementations exist:
//
//   - database/books.Repository: GORM over a local SQLite file
//   - database/surreal.Store: SurrealDB documents over a WebSocket/HTTP endpoint
//
// Both report a missing book as ErrNotFound and an identifier the backend
// cannot interpret as ErrInvalidID. Callers that do not distinguish the two
// can test with IsLookupError.
package store

import (
	"context"
	"errors"

	"github.com/mrlokans/library/internal/entities"
)

var (
	// ErrNotFound indicates no book exists with the requested identifier.
	ErrNotFound = errors.New("book not found")

	// ErrInvalidID indicates the identifier is malformed for the backend.
	ErrInvalidID = errors.New("invalid book id")
)

// BookStore is the document-persistence collaborator of the books API.
//
// Get-style methods return the full book with comments in insertion order.
// AppendComment must be atomic per book: concurrent appends never lose a comment.
type BookStore interface {
	ListBooks(ctx context.Context) ([]entities.BookSummary, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	CreateBook(ctx context.Context, title string) (*entities.Book, error)
	InsertBooks(ctx context.Context, books []*entities.Book) error
	AppendComment(ctx context.Context, id, comment string) (*entities.Book, error)
	DeleteBook(ctx context.Context, id string) error
	DeleteAllBooks(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// IsLookupError reports whether err means the identifier did not resolve to a book.
func IsLookupError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID)
}
