package books

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/store"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "books.db")
	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000&_foreign_keys=1&_txlock=immediate"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}, &entities.BookComment{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewRepository(db)
}

func TestRepository_CreateBook(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	book, err := repo.CreateBook(ctx, "The Left Hand of Darkness")
	require.NoError(t, err)

	_, err = uuid.Parse(book.ID)
	assert.NoError(t, err, "id should be a uuid")
	assert.Equal(t, "The Left Hand of Darkness", book.Title)
	assert.Equal(t, []string{}, book.CommentTexts())
}

func TestRepository_GetBook(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateBook(ctx, "Solaris")
	require.NoError(t, err)

	t.Run("returns existing book", func(t *testing.T) {
		book, err := repo.GetBook(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, book.ID)
		assert.Equal(t, "Solaris", book.Title)
		assert.Empty(t, book.Comments)
	})

	t.Run("rejects alternate spellings of the id", func(t *testing.T) {
		for _, alias := range []string{
			strings.ToUpper(created.ID),
			"urn:uuid:" + created.ID,
			"{" + created.ID + "}",
			strings.ReplaceAll(created.ID, "-", ""),
		} {
			_, err := repo.GetBook(ctx, alias)
			assert.ErrorIs(t, err, store.ErrInvalidID, alias)

			_, err = repo.AppendComment(ctx, alias, "x")
			assert.ErrorIs(t, err, store.ErrInvalidID, alias)

			assert.ErrorIs(t, repo.DeleteBook(ctx, alias), store.ErrInvalidID, alias)
		}

		book, err := repo.GetBook(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, book.Comments)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := repo.GetBook(ctx, uuid.NewString())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("malformed id is invalid", func(t *testing.T) {
		_, err := repo.GetBook(ctx, "67f52d862334b70013df6812")
		assert.ErrorIs(t, err, store.ErrInvalidID)
		assert.True(t, store.IsLookupError(err))
	})
}

func TestRepository_AppendComment(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateBook(ctx, "Roadside Picnic")
	require.NoError(t, err)

	t.Run("appends in insertion order", func(t *testing.T) {
		for _, c := range []string{"first", "second", "first"} {
			_, err := repo.AppendComment(ctx, created.ID, c)
			require.NoError(t, err)
		}

		book, err := repo.GetBook(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "first"}, book.CommentTexts())
	})

	t.Run("returns the updated book", func(t *testing.T) {
		book, err := repo.AppendComment(ctx, created.ID, "last")
		require.NoError(t, err)
		texts := book.CommentTexts()
		assert.Equal(t, "last", texts[len(texts)-1])
		assert.Equal(t, "Roadside Picnic", book.Title)
	})

	t.Run("unknown book is not found", func(t *testing.T) {
		_, err := repo.AppendComment(ctx, uuid.NewString(), "orphan")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("malformed id is invalid", func(t *testing.T) {
		_, err := repo.AppendComment(ctx, "nope", "orphan")
		assert.ErrorIs(t, err, store.ErrInvalidID)
	})
}

func TestRepository_AppendComment_Concurrent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateBook(ctx, "Concurrency")
	require.NoError(t, err)

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := repo.AppendComment(ctx, created.ID, fmt.Sprintf("comment %d", n))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	book, err := repo.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, book.Comments, writers, "no append may be lost")
}

func TestRepository_ListBooks(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("empty store yields empty slice", func(t *testing.T) {
		books, err := repo.ListBooks(ctx)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("counts comments per book in creation order", func(t *testing.T) {
		require.NoError(t, repo.InsertBooks(ctx, []*entities.Book{
			entities.NewBook("", "One"),
			entities.NewBook("", "Two", "a", "b"),
			entities.NewBook("", "Three", "c"),
		}))

		books, err := repo.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 3)

		assert.Equal(t, "One", books[0].Title)
		assert.Equal(t, 0, books[0].CommentCount)
		assert.Equal(t, "Two", books[1].Title)
		assert.Equal(t, 2, books[1].CommentCount)
		assert.Equal(t, "Three", books[2].Title)
		assert.Equal(t, 1, books[2].CommentCount)
		for _, b := range books {
			assert.NotEmpty(t, b.ID)
		}
	})
}

func TestRepository_InsertBooks(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("keeps preset ids and comments", func(t *testing.T) {
		id := uuid.NewString()
		require.NoError(t, repo.InsertBooks(ctx, []*entities.Book{
			entities.NewBook(id, "Preset", "kept", "in order"),
		}))

		book, err := repo.GetBook(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Preset", book.Title)
		assert.Equal(t, []string{"kept", "in order"}, book.CommentTexts())
	})

	t.Run("rejects malformed preset id", func(t *testing.T) {
		err := repo.InsertBooks(ctx, []*entities.Book{entities.NewBook("not-a-uuid", "Bad")})
		assert.ErrorIs(t, err, store.ErrInvalidID)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.InsertBooks(ctx, nil))
	})
}

func TestRepository_DeleteBook(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateBook(ctx, "Ephemeral")
	require.NoError(t, err)
	_, err = repo.AppendComment(ctx, created.ID, "soon gone")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBook(ctx, created.ID))

	_, err = repo.GetBook(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	var orphans int64
	require.NoError(t, repo.db.Model(&entities.BookComment{}).Where("book_id = ?", created.ID).Count(&orphans).Error)
	assert.Zero(t, orphans, "comments should be removed with their book")

	t.Run("second delete is not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteBook(ctx, created.ID), store.ErrNotFound)
	})

	t.Run("malformed id is invalid", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteBook(ctx, "xyz"), store.ErrInvalidID)
	})
}

func TestRepository_DeleteAllBooks(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("succeeds on empty store", func(t *testing.T) {
		n, err := repo.DeleteAllBooks(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("removes everything", func(t *testing.T) {
		require.NoError(t, repo.InsertBooks(ctx, []*entities.Book{
			entities.NewBook("", "A", "x"),
			entities.NewBook("", "B"),
		}))

		n, err := repo.DeleteAllBooks(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		books, err := repo.ListBooks(ctx)
		require.NoError(t, err)
		assert.Empty(t, books)

		var comments int64
		require.NoError(t, repo.db.Model(&entities.BookComment{}).Count(&comments).Error)
		assert.Zero(t, comments)
	})
}

func TestRepository_Ping(t *testing.T) {
	repo := setupTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, repo.Close())
}
