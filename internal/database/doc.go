// Package database provides the local SQLite data access layer.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # GORM implementation of store.BookStore
//	├── audit/           # Audit event persistence
//	└── surreal/         # SurrealDB implementation of store.BookStore
//
// The SQLite file always holds audit events. It holds books too unless
// DATABASE_URL selects the SurrealDB backend.
//
// # Usage
//
//	db, err := database.NewDatabase("./library.db")
//	booksRepo := books.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
// Each sub-package carries a compile-time interface check, for example:
//
//	var _ store.BookStore = (*Repository)(nil)
package database
