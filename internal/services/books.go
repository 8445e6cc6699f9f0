package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/store"
)

var (
	// ErrMissingTitle is returned when a book is created without a title.
	ErrMissingTitle = errors.New("missing required field title")

	// ErrMissingComment is returned when a comment is empty.
	ErrMissingComment = errors.New("missing required field comment")

	// ErrBookNotFound covers both unknown and malformed identifiers.
	ErrBookNotFound = errors.New("no book exists")
)

// IsValidationError reports whether err is a missing-field error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTitle) || errors.Is(err, ErrMissingComment)
}

// BookService validates book operations and delegates them to the store.
type BookService struct {
	store store.BookStore
	audit AuditRecorder
}

// NewBookService creates a BookService. recorder may be nil when auditing is disabled.
func NewBookService(s store.BookStore, recorder AuditRecorder) *BookService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &BookService{store: s, audit: recorder}
}

// List returns a summary of every book in creation order.
func (s *BookService) List(ctx context.Context) ([]entities.BookSummary, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// Create persists a new book with no comments.
func (s *BookService) Create(ctx context.Context, title string) (*entities.Book, error) {
	if title == "" {
		return nil, ErrMissingTitle
	}

	book, err := s.store.CreateBook(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.audit.LogCreate(ctx, book)
	return book, nil
}

// DeleteAll removes every book and returns how many were removed.
func (s *BookService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteAllBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete books: %w", err)
	}

	s.audit.LogPurge(ctx, deleted)
	return deleted, nil
}

// Get returns one book with its comments.
func (s *BookService) Get(ctx context.Context, id string) (*entities.Book, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, lookupError(id, err)
	}
	return book, nil
}

// AddComment appends comment to the book and returns the updated book.
// An empty comment is rejected before the book is looked up.
func (s *BookService) AddComment(ctx context.Context, id, comment string) (*entities.Book, error) {
	if comment == "" {
		return nil, ErrMissingComment
	}

	book, err := s.store.AppendComment(ctx, id, comment)
	if err != nil {
		return nil, lookupError(id, err)
	}

	s.audit.LogComment(ctx, book)
	return book, nil
}

// Delete removes one book.
func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteBook(ctx, id); err != nil {
		return lookupError(id, err)
	}

	s.audit.LogDelete(ctx, id)
	return nil
}

// Seed inserts books as given, honoring preset identifiers. With purge set,
// existing books are removed first. source names the origin for the audit trail.
func (s *BookService) Seed(ctx context.Context, source string, books []*entities.Book, purge bool) (int, error) {
	for i, book := range books {
		if book.Title == "" {
			err := fmt.Errorf("book %d: %w", i, ErrMissingTitle)
			s.audit.LogSeed(ctx, source, 0, err)
			return 0, err
		}
	}

	if purge {
		if _, err := s.DeleteAll(ctx); err != nil {
			s.audit.LogSeed(ctx, source, 0, err)
			return 0, err
		}
	}

	if err := s.store.InsertBooks(ctx, books); err != nil {
		err = fmt.Errorf("failed to seed books: %w", err)
		s.audit.LogSeed(ctx, source, 0, err)
		return 0, err
	}

	s.audit.LogSeed(ctx, source, len(books), nil)
	return len(books), nil
}

// Ping reports whether the store is reachable.
func (s *BookService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// lookupError folds every item-level failure into ErrBookNotFound. Errors
// other than a plain lookup miss are logged since the caller only sees 404.
func lookupError(id string, err error) error {
	if !store.IsLookupError(err) {
		log.Error().Err(err).Str("book_id", id).Msg("Book store operation failed")
	}
	return fmt.Errorf("%w: %s: %w", ErrBookNotFound, id, err)
}
