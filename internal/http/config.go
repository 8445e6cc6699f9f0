package http

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	BookService *services.BookService

	// Local database holding audit events; checked by /health
	Database *database.Database

	// Audit log; nil disables /api/audit
	AuditService *audit.Service

	// Origins allowed for cross-origin requests; empty disables CORS headers
	CORSAllowedOrigins []string

	// Application info
	Version string
}
