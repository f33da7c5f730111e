// Package importer drives a format-specific Source into the staging
// database. Inputs are parsed concurrently; every resulting Step runs on a
// single writer, so the staging connection never sees concurrent inserts.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/intermediate-db/pkg/intermediatedb"
)

// DefaultWorkers is the number of concurrent parsers when Options.Workers is unset.
const DefaultWorkers = 4

// Step writes the rows of one parsed record.
type Step func(w *intermediatedb.Writer) error

// Source is a format-specific importer.
type Source interface {
	// Inputs lists the shards to parse: files, URLs, record ranges.
	Inputs(ctx context.Context) ([]string, error)
	// Parse turns one input into the steps that write it. An error skips
	// the input; it is recorded and the run continues.
	Parse(ctx context.Context, input string) ([]Step, error)
}

type Options struct {
	Workers int
}

// Stats summarizes a run.
type Stats struct {
	RunID      string    `json:"run_id"`
	Inputs     int       `json:"inputs"`
	Parsed     int       `json:"parsed"`
	Failed     int       `json:"failed"`
	Steps      int       `json:"steps"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration is the wall time of the run.
func (s *Stats) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

type Importer struct {
	writer  *intermediatedb.Writer
	logger  *slog.Logger
	workers int
}

func New(w *intermediatedb.Writer, logger *slog.Logger, opts Options) *Importer {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{writer: w, logger: logger, workers: workers}
}

type parsed struct {
	input string
	steps []Step
	err   error
}

// Run imports every input of src. Parse failures are logged to the
// staging log and counted. A failing step aborts the run: it is either a
// malformed call or a storage failure, and both make the rest of the run
// meaningless.
func (im *Importer) Run(ctx context.Context, src Source) (*Stats, error) {
	stats := &Stats{RunID: uuid.NewString(), StartedAt: time.Now()}
	defer func() { stats.FinishedAt = time.Now() }()
	logger := im.logger.With("run_id", stats.RunID)

	inputs, err := src.Inputs(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list inputs: %w", err)
	}
	stats.Inputs = len(inputs)

	logger.Info("Starting import", "inputs", len(inputs), "workers", im.workers)
	if err := im.writer.LogInfo("Import started", map[string]any{"run_id": stats.RunID, "inputs": len(inputs)}); err != nil {
		return stats, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := im.parseAll(ctx, src, inputs)

	runErr := im.write(ctx, logger, stats, results)
	if runErr != nil {
		cancel()
		for range results {
			// Let the parsers exit.
		}
		logger.Error("Import aborted", "error", runErr, "parsed", stats.Parsed, "failed", stats.Failed)
		return stats, runErr
	}

	logger.Info("Import finished", "parsed", stats.Parsed, "failed", stats.Failed, "steps", stats.Steps,
		"duration", time.Since(stats.StartedAt))
	err = im.writer.LogInfo("Import finished", map[string]any{
		"run_id": stats.RunID,
		"parsed": stats.Parsed,
		"failed": stats.Failed,
		"steps":  stats.Steps,
	})
	return stats, err
}

// parseAll fans inputs out to the parser workers. The returned channel is
// closed once every worker has exited.
func (im *Importer) parseAll(ctx context.Context, src Source, inputs []string) <-chan parsed {
	jobs := make(chan string)
	results := make(chan parsed, im.workers)

	var wg sync.WaitGroup
	for i := 1; i <= im.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for input := range jobs {
				steps, err := src.Parse(ctx, input)
				select {
				case results <- parsed{input: input, steps: steps, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, input := range inputs {
			select {
			case jobs <- input:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// write is the single writer: it applies every parsed result in arrival order.
func (im *Importer) write(ctx context.Context, logger *slog.Logger, stats *Stats, results <-chan parsed) error {
	for r := range results {
		if err := ctx.Err(); err != nil {
			return err
		}

		if r.err != nil {
			stats.Failed++
			if errors.Is(r.err, context.Canceled) {
				continue
			}
			logger.Warn("Failed to parse input", "input", r.input, "error", r.err)
			err := im.writer.LogError("Failed to parse input", r.err, map[string]any{
				"run_id": stats.RunID,
				"input":  r.input,
			})
			if err != nil {
				return fmt.Errorf("failed to record parse failure of %s: %w", r.input, err)
			}
			continue
		}

		for i, step := range r.steps {
			if err := step(im.writer); err != nil {
				return fmt.Errorf("failed to write %s (step %d): %w", r.input, i+1, err)
			}
		}
		stats.Parsed++
		stats.Steps += len(r.steps)
		logger.Debug("Imported input", "input", r.input, "steps", len(r.steps))
	}
	return ctx.Err()
}
