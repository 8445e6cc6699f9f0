package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/services"
)

// Plain-text bodies of the books API.
const (
	msgMissingTitle   = "missing required field title"
	msgMissingComment = "missing required field comment"
	msgNoBook         = "no book exists"
	msgDeletedAll     = "complete delete successful"
	msgDeleted        = "delete successful"
)

// ErrorResponse is the JSON error body for failures without a text contract.
type ErrorResponse struct {
	Error string `json:"error"`
}

// bookResponse is the wire form of a single book.
type bookResponse struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Comments []string `json:"comments"`
}

// respondText sends a plain-text body.
func respondText(c *gin.Context, status int, message string) {
	c.String(status, message)
}

// respondStoreError reports a collection-level failure as 500 with the error text.
func respondStoreError(c *gin.Context, err error, operation string) {
	log.Error().Err(err).Str("operation", operation).Msg("Books store failure")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

// respondItemError maps item-route failures: missing fields are 400 and
// everything else, including store faults, is 404.
func respondItemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingComment):
		respondText(c, http.StatusBadRequest, msgMissingComment)
	case errors.Is(err, services.ErrMissingTitle):
		respondText(c, http.StatusBadRequest, msgMissingTitle)
	default:
		log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Book lookup failed")
		respondText(c, http.StatusNotFound, msgNoBook)
	}
}
