package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is a library book with its append-only comment thread.
type Book struct {
	ID        string        `gorm:"primaryKey;size:36" json:"_id"`
	Title     string        `gorm:"size:512;not null" json:"title"`
	Comments  []BookComment `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt time.Time     `gorm:"index" json:"-"`
	UpdatedAt time.Time     `json:"-"`
}

// BookComment is a single free-text comment. Insertion order is the
// ascending ID order.
type BookComment struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	BookID    string    `gorm:"index;size:36;not null" json:"-"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"-"`
}

// BookSummary is the list projection of a book.
type BookSummary struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	CommentCount int    `json:"commentcount"`
}

// BeforeCreate assigns a UUIDv4 identifier unless one was preset (fixtures, seeding).
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// CommentTexts returns the comment bodies in insertion order, never nil.
func (b *Book) CommentTexts() []string {
	texts := make([]string, 0, len(b.Comments))
	for _, c := range b.Comments {
		texts = append(texts, c.Text)
	}
	return texts
}

// NewBook builds an unsaved book carrying the given comments in order.
func NewBook(id, title string, comments ...string) *Book {
	book := &Book{ID: id, Title: title}
	for _, text := range comments {
		book.Comments = append(book.Comments, BookComment{BookID: id, Text: text})
	}
	return book
}

func (Book) TableName() string {
	return "books"
}

func (BookComment) TableName() string {
	return "book_comments"
}
