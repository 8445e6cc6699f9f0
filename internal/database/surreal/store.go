// Package surreal implements store.BookStore on top of SurrealDB.
//
// Books are documents in the "book" table:
//
//	{ id: book:<key>, title: string, comments: [string], created_at: datetime, updated_at: datetime }
//
// The API identifier of a book is the record key without the table prefix.
// Comment appends are one UPDATE statement, atomic per document.
package surreal

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/store"
)

var _ store.BookStore = (*Store)(nil)

const table = "book"

// ErrConnection indicates the store is not connected or the endpoint is unreachable.
var ErrConnection = errors.New("surrealdb connection error")

// ErrQuery indicates a statement failed on the server.
var ErrQuery = errors.New("surrealdb query error")

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// Config holds connection settings.
type Config struct {
	URL       string
	Namespace string
	Database  string
	User      string
	Password  string
}

// Store is a SurrealDB-backed book store.
type Store struct {
	db     *surrealdb.DB
	config Config
}

type bookDocument struct {
	ID       *models.RecordID `json:"id,omitempty"`
	Title    string           `json:"title"`
	Comments []string         `json:"comments"`
}

type bookSummaryDocument struct {
	ID           *models.RecordID `json:"id,omitempty"`
	Title        string           `json:"title"`
	CommentCount int              `json:"commentcount"`
}

// New creates an unconnected store.
func New(cfg Config) *Store {
	return &Store{config: cfg}
}

// Open creates a store and connects it.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	s := New(cfg)
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Connect establishes the connection, signs in and selects namespace and database.
func (s *Store) Connect(ctx context.Context) error {
	db, err := surrealdb.FromEndpointURLString(ctx, s.config.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if s.config.User != "" {
		_, err = db.SignIn(ctx, &surrealdb.Auth{
			Username: s.config.User,
			Password: s.config.Password,
		})
		if err != nil {
			_ = db.Close(ctx)
			return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
		}
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.db = db
	log.Info().
		Str("namespace", s.config.Namespace).
		Str("database", s.config.Database).
		Msg("Connected to SurrealDB")
	return nil
}

// Close closes the connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the connection by asking the server for its version.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrConnection
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// recordKey validates an API identifier. Only the bare key is accepted so
// that a record is addressed by one identifier.
func recordKey(id string) (string, error) {
	if !validKey.MatchString(id) {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return id, nil
}

// keyOf extracts the record key from a RecordID.
func keyOf(id *models.RecordID) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(id.ID)
}

func (d bookDocument) toEntity() *entities.Book {
	key := keyOf(d.ID)
	return entities.NewBook(key, d.Title, d.Comments...)
}

// query runs a SurrealQL query and returns the records of its last statement.
func query[T any](ctx context.Context, db *surrealdb.DB, sql string, vars map[string]any) ([]T, error) {
	if db == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[[]T](ctx, db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
	}
	return (*results)[len(*results)-1].Result, nil
}

// ListBooks returns every book with its comment count, oldest first.
func (s *Store) ListBooks(ctx context.Context) ([]entities.BookSummary, error) {
	docs, err := query[bookSummaryDocument](ctx, s.db,
		`SELECT id, title, array::len(comments) AS commentcount, created_at FROM type::table($tb) ORDER BY created_at ASC`,
		map[string]any{"tb": table},
	)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	summaries := make([]entities.BookSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, entities.BookSummary{
			ID:           keyOf(d.ID),
			Title:        d.Title,
			CommentCount: d.CommentCount,
		})
	}
	return summaries, nil
}

// GetBook retrieves a book by its record key.
func (s *Store) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	key, err := recordKey(id)
	if err != nil {
		return nil, err
	}

	docs, err := query[bookDocument](ctx, s.db,
		`SELECT * FROM type::thing($tb, $key)`,
		map[string]any{"tb": table, "key": key},
	)
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", key, err)
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	return docs[0].toEntity(), nil
}

// CreateBook persists a new book with an empty comment thread.
func (s *Store) CreateBook(ctx context.Context, title string) (*entities.Book, error) {
	docs, err := query[bookDocument](ctx, s.db,
		`CREATE type::table($tb) CONTENT { title: $title, comments: [], created_at: time::now(), updated_at: time::now() }`,
		map[string]any{"tb": table, "title": title},
	)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("create book: %w: no record returned", ErrQuery)
	}
	return docs[0].toEntity(), nil
}

// InsertBooks creates all books in a single transaction. Preset IDs become
// record keys; books without one get a server-generated key. Each statement
// uses its own variables since the batch shares one variable map.
func (s *Store) InsertBooks(ctx context.Context, books []*entities.Book) error {
	if len(books) == 0 {
		return nil
	}

	var sb strings.Builder
	vars := map[string]any{"tb": table}
	sb.WriteString("BEGIN TRANSACTION;\n")
	for i, book := range books {
		target := "type::table($tb)"
		if book.ID != "" {
			key, err := recordKey(book.ID)
			if err != nil {
				return err
			}
			vars[fmt.Sprintf("key%d", i)] = key
			target = fmt.Sprintf("type::thing($tb, $key%d)", i)
		}
		vars[fmt.Sprintf("title%d", i)] = book.Title
		vars[fmt.Sprintf("comments%d", i)] = book.CommentTexts()
		// created_at is offset by position so listing reproduces slice order
		fmt.Fprintf(&sb,
			"CREATE %s CONTENT { title: $title%d, comments: $comments%d, created_at: time::now() + %dus, updated_at: time::now() };\n",
			target, i, i, i)
	}
	sb.WriteString("COMMIT TRANSACTION;")

	if _, err := query[bookDocument](ctx, s.db, sb.String(), vars); err != nil {
		return fmt.Errorf("insert books: %w", err)
	}
	return nil
}

// AppendComment adds comment to the end of the book's thread in one statement.
// The WHERE form never creates a missing record.
func (s *Store) AppendComment(ctx context.Context, id, comment string) (*entities.Book, error) {
	key, err := recordKey(id)
	if err != nil {
		return nil, err
	}

	docs, err := query[bookDocument](ctx, s.db,
		`UPDATE type::table($tb) SET comments += $comment, updated_at = time::now() WHERE id = type::thing($tb, $key) RETURN AFTER`,
		map[string]any{"tb": table, "key": key, "comment": comment},
	)
	if err != nil {
		return nil, fmt.Errorf("append comment to %s: %w", key, err)
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	return docs[0].toEntity(), nil
}

// DeleteBook removes one book.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	key, err := recordKey(id)
	if err != nil {
		return err
	}

	docs, err := query[bookDocument](ctx, s.db,
		`DELETE type::table($tb) WHERE id = type::thing($tb, $key) RETURN BEFORE`,
		map[string]any{"tb": table, "key": key},
	)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", key, err)
	}
	if len(docs) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAllBooks removes every book, returning how many existed.
func (s *Store) DeleteAllBooks(ctx context.Context) (int64, error) {
	docs, err := query[bookDocument](ctx, s.db,
		`DELETE type::table($tb) RETURN BEFORE`,
		map[string]any{"tb": table},
	)
	if err != nil {
		return 0, fmt.Errorf("delete all books: %w", err)
	}
	return int64(len(docs)), nil
}
