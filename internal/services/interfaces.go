package services

import (
	"context"

	"github.com/mrlokans/library/internal/entities"
)

// AuditRecorder records successful book mutations. Implementations must not
// block the caller; audit.Service writes in the background.
type AuditRecorder interface {
	LogCreate(ctx context.Context, book *entities.Book)
	LogComment(ctx context.Context, book *entities.Book)
	LogDelete(ctx context.Context, bookID string)
	LogPurge(ctx context.Context, deleted int64)
	LogSeed(ctx context.Context, source string, booksCount int, err error)
}

type noopRecorder struct{}

func (noopRecorder) LogCreate(context.Context, *entities.Book) {}
func (noopRecorder) LogComment(context.Context, *entities.Book) {}
func (noopRecorder) LogDelete(context.Context, string) {}
func (noopRecorder) LogPurge(context.Context, int64) {}
func (noopRecorder) LogSeed(context.Context, string, int, error) {}
