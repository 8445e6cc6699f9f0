// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - store.BookStore: Book persistence (internal/store/store.go). Implemented by
//     database/books.Repository (GORM/SQLite) and database/surreal.Store (SurrealDB).
//
// ## Cross-cutting Interfaces
//
//   - services.AuditRecorder: Records successful book mutations (internal/services/interfaces.go)
//   - tasks.AuditEventCleaner: Deletes expired audit events (internal/tasks/cleanup_audit.go)
//   - scheduler.AuditCleanupEnqueuer: Queues retention runs (internal/scheduler/audit_retention.go)
//   - http.Pinger: Connectivity checks for /health (internal/http/health.go)
//
// # Adding a Book Store
//
//  1. Implement every store.BookStore method. Report a missing book as
//     store.ErrNotFound and an identifier the backend cannot parse as
//     store.ErrInvalidID.
//  2. AppendComment must be atomic per book: two concurrent appends both land.
//  3. Add a compile-time check to checks.go.
//  4. Select it in entrypoint.OpenStore.
//
// # Error Flow
//
// Stores return sentinel errors wrapped with %w. services.BookService folds
// item-level failures into services.ErrBookNotFound, and the HTTP layer maps
// services errors to status codes in internal/http/helpers.go.
package interfaces
