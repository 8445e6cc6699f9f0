// Package storetest provides an in-memory store.BookStore for tests.
package storetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/store"
)

var _ store.BookStore = (*MemoryStore)(nil)

// MemoryStore keeps books in insertion order. Setting Err makes every
// call fail with it.
type MemoryStore struct {
	mu     sync.Mutex
	books  []*entities.Book
	nextID int
	closed bool

	Err error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FailWith makes subsequent calls return err.
func (m *MemoryStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Closed reports whether Close was called.
func (m *MemoryStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MemoryStore) find(id string) (int, error) {
	if id == "" {
		return -1, store.ErrInvalidID
	}
	for i, b := range m.books {
		if b.ID == id {
			return i, nil
		}
	}
	return -1, store.ErrNotFound
}

func clone(b *entities.Book) *entities.Book {
	return entities.NewBook(b.ID, b.Title, b.CommentTexts()...)
}

func (m *MemoryStore) ListBooks(ctx context.Context) ([]entities.BookSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]entities.BookSummary, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, entities.BookSummary{ID: b.ID, Title: b.Title, CommentCount: len(b.Comments)})
	}
	return out, nil
}

func (m *MemoryStore) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	return clone(m.books[i]), nil
}

func (m *MemoryStore) CreateBook(ctx context.Context, title string) (*entities.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	m.nextID++
	book := entities.NewBook(fmt.Sprintf("book-%d", m.nextID), title)
	m.books = append(m.books, book)
	return clone(book), nil
}

func (m *MemoryStore) InsertBooks(ctx context.Context, books []*entities.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for _, b := range books {
		id := b.ID
		if id == "" {
			m.nextID++
			id = fmt.Sprintf("book-%d", m.nextID)
		}
		m.books = append(m.books, entities.NewBook(id, b.Title, b.CommentTexts()...))
	}
	return nil
}

func (m *MemoryStore) AppendComment(ctx context.Context, id, comment string) (*entities.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	b := m.books[i]
	b.Comments = append(b.Comments, entities.BookComment{BookID: id, Text: comment})
	return clone(b), nil
}

func (m *MemoryStore) DeleteBook(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	i, err := m.find(id)
	if err != nil {
		return err
	}
	m.books = append(m.books[:i], m.books[i+1:]...)
	return nil
}

func (m *MemoryStore) DeleteAllBooks(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}

	n := int64(len(m.books))
	m.books = nil
	return n, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
