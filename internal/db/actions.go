package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/dtnitsch/intermediate-db/internal/common"
	"github.com/dtnitsch/intermediate-db/pkg/intermediatedb"
	"github.com/urfave/cli/v2"
)

// CreateAction creates an empty staging database.
func CreateAction(c *cli.Context) error {
	cfg, err := common.Config(c)
	if err != nil {
		return err
	}

	database, err := common.OpenIntermediateDB(cfg.IntermediateDB)
	if err != nil {
		return err
	}
	defer database.Close()

	version, err := database.SchemaVersion()
	if err != nil {
		return err
	}
	fmt.Printf("Intermediate database ready: %s (schema v%d, %d tables)\n",
		database.Path(), version, len(intermediatedb.Tables()))
	return nil
}

// StatsAction prints the row count of every staging table.
func StatsAction(c *cli.Context) error {
	cfg, err := common.Config(c)
	if err != nil {
		return err
	}

	database, err := common.OpenIntermediateDB(cfg.IntermediateDB)
	if err != nil {
		return err
	}
	defer database.Close()

	counts := map[string]int64{}
	var total int64
	for _, t := range intermediatedb.Tables() {
		n, err := database.CountRows(t.Name())
		if err != nil {
			return err
		}
		total += n
		if n > 0 || c.Bool("all") {
			counts[t.Name()] = n
		}
	}

	if c.Bool("json") {
		return common.PrintJSON(os.Stdout, counts)
	}

	fmt.Printf("%-32s %10s\n", "Table", "Rows")
	fmt.Println(strings.Repeat("-", 43))
	for _, t := range intermediatedb.Tables() {
		if n, ok := counts[t.Name()]; ok {
			fmt.Printf("%-32s %10d\n", t.Name(), n)
		}
	}
	fmt.Println(strings.Repeat("-", 43))
	fmt.Printf("%-32s %10d\n", "total", total)
	return nil
}

// LogAction prints the most recent log entries of past runs.
func LogAction(c *cli.Context) error {
	cfg, err := common.Config(c)
	if err != nil {
		return err
	}

	logType := c.String("type")
	switch logType {
	case "", intermediatedb.LogTypeInfo, intermediatedb.LogTypeWarning, intermediatedb.LogTypeError:
	default:
		return fmt.Errorf("unknown log type: %s (use: info, warning, or error)", logType)
	}

	database, err := common.OpenIntermediateDB(cfg.IntermediateDB)
	if err != nil {
		return err
	}
	defer database.Close()

	entries, err := database.ListLogEntries(logType, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No log entries found")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s [%s] %s\n", e.CreatedAt, e.Type, e.Message)
		if e.Details.Valid {
			fmt.Printf("    details: %s\n", e.Details.String)
		}
		if e.Exception.Valid && c.Bool("exceptions") {
			for _, line := range strings.Split(e.Exception.String, "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}
	fmt.Printf("\nShowing %d entries\n", len(entries))
	return nil
}
