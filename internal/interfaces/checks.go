package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/surreal"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/store"
	"github.com/mrlokans/library/internal/store/storetest"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Book Stores
// =============================================================================

var _ store.BookStore = (*books.Repository)(nil)
var _ store.BookStore = (*surreal.Store)(nil)
var _ store.BookStore = (*storetest.MemoryStore)(nil)

// =============================================================================
// Audit
// =============================================================================

var _ services.AuditRecorder = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Jobs
// =============================================================================

var _ scheduler.AuditCleanupEnqueuer = (*tasks.Client)(nil)

// =============================================================================
// Health Checks
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.Pinger = (*services.BookService)(nil)
