package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/entrypoint"
	"github.com/mrlokans/library/internal/services"
)

// SeedBook is one entry of a seed file.
type SeedBook struct {
	ID       string   `json:"_id,omitempty"`
	Title    string   `json:"title"`
	Comments []string `json:"comments,omitempty"`
}

// SeedCommand loads books from a JSON fixture file into the configured store.
type SeedCommand struct {
	FilePath string
	Purge    bool
	DryRun   bool
	Verbose  bool

	out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON array of books (required)")
	fs.BoolVar(&cmd.Purge, "purge", false, "Delete all existing books before seeding")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the file without writing anything")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load books from a JSON file into the configured store.\n\n")
		fmt.Fprintf(os.Stderr, "File format:\n")
		fmt.Fprintf(os.Stderr, "  [{\"_id\": \"optional id\", \"title\": \"Dune\", \"comments\": [\"great\"]}]\n\n")
		fmt.Fprintf(os.Stderr, "Preset ids must be valid for the store: UUIDs for SQLite, record keys for SurrealDB.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -file testdata/books.json -purge\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return errors.New("required flag -file not provided")
	}

	return nil
}

// ReadSeedFile decodes a seed file into unsaved books, preserving order.
func ReadSeedFile(r io.Reader) ([]*entities.Book, error) {
	var entries []SeedBook
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	books := make([]*entities.Book, 0, len(entries))
	for i, e := range entries {
		if e.Title == "" {
			return nil, fmt.Errorf("entry %d: %w", i, services.ErrMissingTitle)
		}
		books = append(books, entities.NewBook(e.ID, e.Title, e.Comments...))
	}
	return books, nil
}

func (cmd *SeedCommand) Run() error {
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	app, err := entrypoint.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return cmd.RunWith(ctx, app.BookService)
}

// RunWith seeds through svc. Split from Run so the store can be injected.
func (cmd *SeedCommand) RunWith(ctx context.Context, svc *services.BookService) error {
	out := cmd.out
	if out == nil {
		out = io.Discard
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	books, err := ReadSeedFile(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Found %d books in %s\n", len(books), cmd.FilePath)
	if cmd.Verbose {
		for i, b := range books {
			fmt.Fprintf(out, "%d. %q (%d comments)\n", i+1, b.Title, len(b.Comments))
		}
	}

	if cmd.DryRun {
		fmt.Fprintln(out, "Dry run complete. Use without -dry-run to seed.")
		return nil
	}

	n, err := svc.Seed(ctx, filepath.Base(cmd.FilePath), books, cmd.Purge)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Seeded %d books\n", n)
	return nil
}
