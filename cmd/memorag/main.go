// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/poiesic/memorag"
	"github.com/poiesic/memorag/config"
	"github.com/poiesic/memorag/i18n"
	"github.com/poiesic/memorag/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "memorag",
		Usage: "Ask natural-language questions about an ESG fact corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory holding the fact index and history (overrides data.dir)",
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "Answer language: en or zh (overrides session.locale)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: before,
		Action: replCommand,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Load CSV exports of the ESG corpus into the fact index",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "csv",
						Usage:    "CSV export to load (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "ticker",
						Usage: "Only load rows for this ticker",
					},
					&cli.StringFlag{
						Name:  "year",
						Usage: "Only load rows for this year",
					},
					&cli.BoolFlag{
						Name:  "complete-only",
						Usage: "Skip rows flagged incomplete",
					},
					&cli.IntFlag{
						Name:  "max-rows",
						Usage: "Load at most this many rows (0 for all)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of rows embedded per request (overrides ingest.batch_size)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers (overrides ingest.pool_size)",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a single question and exit",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "llm",
						Usage: "Write the answer with the configured LLM",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Print the query analysis and pipeline stages",
					},
				},
			},
			{
				Name:   "repl",
				Usage:  "Start an interactive session (default)",
				Action: replCommand,
			},
			{
				Name:   "history",
				Usage:  "Print the query history report",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Delete the stored history",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print fact index statistics",
				Action: statsCommand,
			},
		},
	}
}

// loadConfig reads the configuration file and applies global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.Data.Dir = dir
	}
	if locale := c.String("locale"); locale != "" {
		l, err := i18n.ParseLocale(locale)
		if err != nil {
			return nil, err
		}
		cfg.Session.Locale = string(l)
	}
	return cfg, nil
}

func openEngine(ctx context.Context, c *cli.Context) (*memorag.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	engine, err := memorag.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	filter := ingestion.Filter{
		Ticker:       c.String("ticker"),
		Year:         c.String("year"),
		CompleteOnly: c.Bool("complete-only"),
		Limit:        c.Int("max-rows"),
	}
	if filter.Limit < 0 {
		return fmt.Errorf("max-rows must not be negative")
	}

	var rows []ingestion.Row
	for _, path := range c.StringSlice("csv") {
		read, err := ingestion.ReadCSVFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "Read %d rows from %s\n", len(read), path)
		rows = append(rows, read...)
	}
	rows = filter.Apply(rows)
	if len(rows) == 0 {
		return fmt.Errorf("no rows to load after filtering")
	}

	engine, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := []ingestion.Option{ingestion.WithProgress(os.Stderr)}
	if n := c.Int("batch-size"); n > 0 {
		opts = append(opts, ingestion.WithBatchSize(n))
	}
	if n := c.Int("pool-size"); n > 0 {
		opts = append(opts, ingestion.WithPoolSize(n))
	}

	stats, err := engine.Ingest(ctx, rows, opts...)
	fmt.Fprintf(os.Stderr, "Indexed %d of %d rows in %d batches (%d failed), %d aliases\n",
		stats.Indexed, stats.Rows, stats.Batches, stats.Failed, stats.Aliases)
	if err != nil {
		return fmt.Errorf("ingestion incomplete: %w", err)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	ctx := context.Background()
	engine, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer engine.Close()

	sess, err := engine.NewSession()
	if err != nil {
		return err
	}
	if c.Bool("llm") {
		if _, ok := sess.ToggleMode(engine.HasResponder()); !ok {
			return errors.New("no LLM configured: set ai.responder_token or DEEPSEEK_API_KEY")
		}
	}
	if c.Bool("debug") {
		sess.ToggleDebug()
	}

	r := newREPL(engine, sess, os.Stdin, os.Stdout)
	r.ask(ctx, question)
	return nil
}

func replCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer engine.Close()

	sess, err := engine.NewSession()
	if err != nil {
		return err
	}
	return newREPL(engine, sess, os.Stdin, os.Stdout).run(ctx)
}

func historyCommand(c *cli.Context) error {
	ctx := context.Background()
	engine, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer engine.Close()

	sess, err := engine.NewSession()
	if err != nil {
		return err
	}
	loc := i18n.Default().For(sess.Locale())
	if c.Bool("clear") {
		if err := sess.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Println(loc.T(i18n.MemoryCleared))
		return nil
	}
	printReport(os.Stdout, loc, sess.Report(ctx))
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()
	engine, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.IndexStats(ctx)
	if err != nil {
		return err
	}
	loc := i18n.Default().For(engine.Config().SessionConfig().Locale)
	printIndexStats(os.Stdout, loc, stats)
	return nil
}

func before(c *cli.Context) error {
	if c.Bool("no-color") {
		color.NoColor = true
	}
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
