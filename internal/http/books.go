package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/services"
)

// createBookRequest accepts JSON, url-encoded and multipart bodies.
type createBookRequest struct {
	Title scalarText `json:"title" form:"title" binding:"required"`
}

type addCommentRequest struct {
	Comment scalarText `json:"comment" form:"comment" binding:"required"`
}

// scalarText is a text field that also accepts JSON numbers and booleans,
// stored as their string form. Falsy values (0, false, null) read as empty
// and fail the required check. Objects and arrays are rejected.
type scalarText string

func (t *scalarText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = scalarText(s)
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*t = ""
	case bytes.Equal(data, []byte("true")):
		*t = "true"
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("expected a string, number or boolean, got %s", data)
		}
		*t = scalarText(formatNumber(f))
	}
	return nil
}

// formatNumber renders f in plain decimal below 1e21, in exponent form above.
func formatNumber(f float64) string {
	if f == 0 {
		return ""
	}
	if math.Abs(f) >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type BooksController struct {
	books *services.BookService
}

func NewBooksController(books *services.BookService) *BooksController {
	return &BooksController{books: books}
}

func toBookResponse(book *entities.Book) bookResponse {
	return bookResponse{
		ID:       book.ID,
		Title:    book.Title,
		Comments: book.CommentTexts(),
	}
}

// ListBooks returns every book with its comment count.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	books, err := bc.books.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "list")
		return
	}
	if books == nil {
		books = []entities.BookSummary{}
	}
	c.JSON(http.StatusOK, books)
}

// CreateBook adds a book with an empty comment thread.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondText(c, http.StatusBadRequest, msgMissingTitle)
		return
	}

	book, err := bc.books.Create(c.Request.Context(), string(req.Title))
	if err != nil {
		if services.IsValidationError(err) {
			respondText(c, http.StatusBadRequest, msgMissingTitle)
			return
		}
		respondStoreError(c, err, "create")
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

// DeleteAllBooks removes every book.
// DELETE /api/books
func (bc *BooksController) DeleteAllBooks(c *gin.Context) {
	if _, err := bc.books.DeleteAll(c.Request.Context()); err != nil {
		respondStoreError(c, err, "delete_all")
		return
	}
	respondText(c, http.StatusOK, msgDeletedAll)
}

// GetBook returns one book with its comments.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.books.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondItemError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

// AddComment appends a comment and returns the updated book.
// POST /api/books/:id
func (bc *BooksController) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondText(c, http.StatusBadRequest, msgMissingComment)
		return
	}

	book, err := bc.books.AddComment(c.Request.Context(), c.Param("id"), string(req.Comment))
	if err != nil {
		respondItemError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

// DeleteBook removes one book.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	if err := bc.books.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondItemError(c, err)
		return
	}
	respondText(c, http.StatusOK, msgDeleted)
}
