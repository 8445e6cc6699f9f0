package entrypoint

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditRepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/surreal"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/store"
)

// App holds the long-lived dependencies shared by the server and CLI commands.
type App struct {
	DB           *database.Database
	Store        store.BookStore
	AuditService *audit.Service
	BookService  *services.BookService
}

// OpenStore returns the book store selected by cfg. The SQLite backend
// shares db; the SurrealDB backend opens its own connection.
func OpenStore(ctx context.Context, cfg *config.Config, db *database.Database) (store.BookStore, error) {
	switch cfg.StoreBackend() {
	case config.StoreBackendSurrealDB:
		return surreal.Open(ctx, surreal.Config{
			URL:       cfg.Database.URL,
			Namespace: cfg.SurrealDB.Namespace,
			Database:  cfg.SurrealDB.Database,
			User:      cfg.SurrealDB.User,
			Password:  cfg.SurrealDB.Password,
		})
	default:
		return books.NewRepository(db.DB), nil
	}
}

// NewApp opens the local database and the configured book store and wires
// the services on top of them.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bookStore, err := OpenStore(ctx, cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open %s book store: %w", cfg.StoreBackend(), err)
	}
	log.Info().Str("backend", string(cfg.StoreBackend())).Msg("Book store ready")

	app := &App{DB: db, Store: bookStore}

	// A nil *audit.Service must not reach NewBookService as a non-nil interface
	var recorder services.AuditRecorder
	if cfg.Audit.Enabled {
		app.AuditService = audit.NewService(auditRepo.NewRepository(db.DB))
		recorder = app.AuditService
	}
	app.BookService = services.NewBookService(bookStore, recorder)

	return app, nil
}

// Close waits for pending audit writes and releases the stores.
func (a *App) Close() error {
	if a.AuditService != nil {
		a.AuditService.Wait()
	}

	var firstErr error
	if err := a.Store.Close(); err != nil {
		firstErr = fmt.Errorf("close book store: %w", err)
	}
	if err := a.DB.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close database: %w", err)
	}
	return firstErr
}
