package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(SecurityHeadersMiddleware())

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	router.Use(AuditContextMiddleware())

	checks := map[string]Pinger{"store": cfg.BookService}
	if cfg.Database != nil {
		checks["database"] = cfg.Database
	}
	health := NewHealthController(checks, cfg.Version)
	booksController := NewBooksController(cfg.BookService)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	books := router.Group("/api/books")
	books.GET("", booksController.ListBooks)
	books.POST("", booksController.CreateBook)
	books.DELETE("", booksController.DeleteAllBooks)
	books.GET("/:id", booksController.GetBook)
	books.POST("/:id", booksController.AddComment)
	books.DELETE("/:id", booksController.DeleteBook)

	// Audit log endpoints
	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.GetAuditEvents)
		router.GET("/api/audit/books/:id", auditController.GetBookHistory)
	}

	return router
}
