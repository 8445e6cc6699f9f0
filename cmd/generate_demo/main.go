// Command generate_demo creates a demo library with public domain books whose
// comments are well-known quotes.
// Usage: go run ./cmd/generate_demo [-db path/to/demo.db] [-json path/to/books.json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/cli"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/logger"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	jsonPath := flag.String("json", "", "also write the books as a seed file usable with 'seed -file'")
	flag.Parse()

	logger.Setup(config.Log{Level: "info", Format: "console"})
	log.Info().Str("path", *dbPath).Msg("Generating demo database")

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("Failed to remove existing demo database")
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create database")
	}
	defer db.Close()

	demo := publicDomainBooks()
	repo := books.NewRepository(db.DB)
	if err := repo.InsertBooks(context.Background(), demo); err != nil {
		log.Fatal().Err(err).Msg("Failed to save demo books")
	}
	for _, b := range demo {
		log.Info().Str("id", b.ID).Str("title", b.Title).Int("comments", len(b.Comments)).Msg("Saved")
	}

	if *jsonPath != "" {
		if err := writeSeedFile(*jsonPath, demo); err != nil {
			log.Fatal().Err(err).Msg("Failed to write seed file")
		}
		log.Info().Str("path", *jsonPath).Msg("Seed file written")
	}

	log.Info().Msg("Demo database generated successfully!")
}

func writeSeedFile(path string, demo []*entities.Book) error {
	entries := make([]cli.SeedBook, 0, len(demo))
	for _, b := range demo {
		entries = append(entries, cli.SeedBook{ID: b.ID, Title: b.Title, Comments: b.CommentTexts()})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Fixed ids keep links to the demo stable across regenerations.
func publicDomainBooks() []*entities.Book {
	return []*entities.Book{
		entities.NewBook("6f1c2a52-8d1e-4c3b-9f0a-1b2c3d4e5f60", "Meditations",
			"You have power over your mind - not outside events. Realize this, and you will find strength.",
			"The happiness of your life depends upon the quality of your thoughts.",
			"Waste no more time arguing about what a good man should be. Be one.",
		),
		entities.NewBook("0a7d9b34-2e5f-4a61-8c7b-3d4e5f607182", "Pride and Prejudice",
			"It is a truth universally acknowledged, that a single man in possession of a good fortune, must be in want of a wife.",
			"I declare after all there is no enjoyment like reading!",
		),
		entities.NewBook("3b8e0c45-3f60-4b72-9d8c-4e5f60718293", "Walden",
			"I went to the woods because I wished to live deliberately.",
			"The mass of men lead lives of quiet desperation.",
		),
		entities.NewBook("4c9f1d56-4071-4c83-8e9d-5f60718293a4", "Frankenstein",
			"Beware; for I am fearless, and therefore powerful.",
		),
		entities.NewBook("5da02e67-5182-4d94-9fae-60718293a4b5", "The Art of War"),
	}
}
