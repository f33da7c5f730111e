package crawl

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/intermediate-db/internal/common"
	"github.com/dtnitsch/intermediate-db/pkg/caching"
	"github.com/dtnitsch/intermediate-db/pkg/crawl"
	"github.com/dtnitsch/intermediate-db/pkg/db"
	"github.com/dtnitsch/intermediate-db/pkg/detector"
	"github.com/dtnitsch/intermediate-db/pkg/fetcher"
	"github.com/dtnitsch/intermediate-db/pkg/importer"
	"github.com/dtnitsch/intermediate-db/pkg/intermediatedb"
	"github.com/urfave/cli/v2"
)

// ImportAction imports crawled and saved pages into the staging database
// and prints the run statistics.
func ImportAction(c *cli.Context) error {
	logger := common.Logger(c)

	cfg, err := common.Config(c)
	if err != nil {
		return err
	}
	crawlCfg := cfg.Crawl
	if c.IsSet("url") {
		crawlCfg.URLs = c.StringSlice("url")
	}
	if c.IsSet("dir") {
		crawlCfg.Dirs = c.StringSlice("dir")
	}
	if c.IsSet("base-url") {
		crawlCfg.BaseURL = c.String("base-url")
	}
	if c.Bool("detect-language") {
		crawlCfg.DetectLanguage = true
	}
	if len(crawlCfg.URLs) == 0 && len(crawlCfg.Dirs) == 0 {
		return errors.New("nothing to import: pass --url or --dir, or set crawl.urls or crawl.dirs in the config")
	}

	database, err := common.OpenIntermediateDB(cfg.IntermediateDB)
	if err != nil {
		return err
	}
	defer database.Close()

	conn, err := db.NewConnection(database, cfg.BatchSize)
	if err != nil {
		return err
	}

	var cache *caching.Cache
	if crawlCfg.CacheDir != "" && !c.Bool("no-cache") {
		cache, err = caching.NewCache(crawlCfg.CacheDir, crawlCfg.CacheTTL)
		if err != nil {
			conn.Close()
			return err
		}
	}
	f := fetcher.NewFetcher(fetcher.Options{
		UserAgent: crawlCfg.UserAgent,
		Timeout:   crawlCfg.Timeout,
		Cache:     cache,
	})

	var locales crawl.LocaleDetector
	if crawlCfg.DetectLanguage {
		d, err := detector.New(crawlCfg.Languages)
		if err != nil {
			conn.Close()
			return err
		}
		locales = d
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Importing pages", "db", database.Path(), "urls", len(crawlCfg.URLs), "dirs", len(crawlCfg.Dirs),
		"batch_size", cfg.BatchSize, "detect_language", crawlCfg.DetectLanguage)

	im := importer.New(intermediatedb.New(conn), logger, importer.Options{Workers: cfg.Workers})
	stats, runErr := im.Run(ctx, crawl.New(crawlCfg, f, locales))
	if err := conn.Close(); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to close connection: %w", err))
	}
	if runErr != nil {
		return runErr
	}
	return common.PrintJSON(os.Stdout, stats)
}
