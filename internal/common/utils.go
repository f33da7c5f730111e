// Package common holds the pieces every command shares: configuration,
// logging, database setup and output.
package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/intermediate-db/models"
	"github.com/dtnitsch/intermediate-db/pkg/db"
	"github.com/dtnitsch/intermediate-db/pkg/intermediatedb"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
)

// Config loads --config, if given, and applies the flag overrides.
func Config(c *cli.Context) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("db") {
		cfg.IntermediateDB = c.String("db")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("batch-size") {
		cfg.BatchSize = c.Int("batch-size")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Logger writes JSON logs to stderr. --quiet keeps only errors, --verbose
// adds debug output.
func Logger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case c.Bool("quiet"):
		level = slog.LevelError
	case c.Bool("verbose"):
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// OpenIntermediateDB opens the staging database and makes sure its schema
// is current.
func OpenIntermediateDB(path string) (*db.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := intermediatedb.Setup(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
