package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

const entityBook = "book"

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	applyRequestInfo(ctx, event)
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
// The write outlives the caller's context cancellation.
func (s *Service) LogAsync(ctx context.Context, event *entities.AuditEvent) {
	applyRequestInfo(ctx, event)
	ctx = context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Error().Err(err).
				Str("action", event.Action).
				Msg("Failed to log audit event")
		}
	}()
}

// Wait blocks until every pending asynchronous write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogCreate records a book creation.
func (s *Service) LogCreate(ctx context.Context, book *entities.Book) {
	s.LogAsync(ctx, &entities.AuditEvent{
		EventType:   entities.AuditEventCreate,
		Action:      "book_create",
		Description: "Created book: " + truncate(book.Title, 200),
		EntityType:  entityBook,
		EntityID:    book.ID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogComment records a comment appended to a book.
func (s *Service) LogComment(ctx context.Context, book *entities.Book) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventComment,
		Action:      "book_comment",
		Description: "Commented on book: " + truncate(book.Title, 200),
		EntityType:  entityBook,
		EntityID:    book.ID,
		Status:      entities.AuditStatusSuccess,
	}
	event.Metadata = metadata(map[string]any{"comment_count": len(book.Comments)})

	s.LogAsync(ctx, event)
}

// LogDelete records the deletion of one book.
func (s *Service) LogDelete(ctx context.Context, bookID string) {
	s.LogAsync(ctx, &entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      "book_delete",
		Description: "Deleted book " + bookID,
		EntityType:  entityBook,
		EntityID:    bookID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogPurge records the deletion of every book.
func (s *Service) LogPurge(ctx context.Context, deleted int64) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventPurge,
		Action:      "book_delete_all",
		Description: fmt.Sprintf("Deleted all books (%d)", deleted),
		EntityType:  entityBook,
		Status:      entities.AuditStatusSuccess,
	}
	event.Metadata = metadata(map[string]any{"books_count": deleted})

	s.LogAsync(ctx, event)
}

// LogSeed records a bulk load from a fixture file.
func (s *Service) LogSeed(ctx context.Context, source string, booksCount int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSeed,
		Action:      "book_seed",
		Description: fmt.Sprintf("Seeded %d books from %s", booksCount, source),
		EntityType:  entityBook,
		Status:      entities.AuditStatusSuccess,
	}
	event.Metadata = metadata(map[string]any{"books_count": booksCount, "source": source})

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(ctx, event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEventsByType(ctx, eventType, limit, offset)
}

// GetBookHistory retrieves every event recorded for one book, oldest first.
func (s *Service) GetBookHistory(ctx context.Context, bookID string) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForEntity(ctx, entityBook, bookID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func metadata(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to at most maxLen bytes, cutting on a rune boundary.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
