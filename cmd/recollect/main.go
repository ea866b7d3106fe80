// Copyright 2026 Veridian Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/veridian-systems/recollect"
	"github.com/veridian-systems/recollect/ai"
	"github.com/veridian-systems/recollect/ingest"
)

func main() {
	app := &cli.App{
		Name:  "recollect",
		Usage: "Fusion search and indexing over chat archives",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search a chat archive and print the assembled context",
				ArgsUsage: "<question>",
				Action:    searchCommand,
				Flags: append(storageFlags(),
					&cli.Int64Flag{
						Name:     "chat",
						Aliases:  []string{"c"},
						Usage:    "Chat ID to search within",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "window-size",
						Usage: "Messages of context on each side of a match",
						Value: 5,
					},
				),
			},
			{
				Name:   "index",
				Usage:  "Run the embedding indexing pipeline",
				Action: indexCommand,
				Flags: append(append(storageFlags(),
					&cli.BoolFlag{
						Name:  "once",
						Usage: "Run a single indexing pass instead of the continuous loop",
					}),
					embeddingFlags()...,
				),
			},
			{
				Name:   "stats",
				Usage:  "Print indexing progress per handler",
				Action: statsCommand,
				Flags:  storageFlags(),
			},
			{
				Name:      "import",
				Usage:     "Import a chat export file into the archive",
				ArgsUsage: "<export.json>",
				Action:    importCommand,
				Flags: append(storageFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Messages stored per write batch",
						Value: 500,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "generator-host",
			Usage: "Question-generation service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Question-generation model name (empty disables question indexing)",
		},
	}
}

func openArchive(c *cli.Context) (*recollect.Archive, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	opts := []recollect.ArchiveOption{}
	if c.IsSet("embedding-host") || c.IsSet("embedding-model") ||
		c.IsSet("generator-host") || c.IsSet("generator-model") {
		generatorHost := c.String("generator-host")
		if generatorHost == "" {
			generatorHost = c.String("embedding-host")
		}
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithGeneratorHost(generatorHost),
			ai.WithGeneratorModel(c.String("generator-model")),
		)
		if err := aiConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		opts = append(opts, recollect.WithAIConfig(aiConfig))
	}

	archive, err := recollect.Open(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return archive, nil
}

func searchCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question argument is required")
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	ctx := context.Background()
	response, err := archive.Search(ctx, c.Int64("chat"), question)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Confidence: %s (%s)\n", response.Confidence, response.ConfidenceReason)
	if len(response.Results) == 0 {
		return nil
	}
	fmt.Printf("Best score: %.3f  Gap: %.3f  Full-text match: %v\n\n",
		response.BestScore, response.ScoreGap, response.HasFullTextMatch)

	ids := make([]int64, 0, len(response.Results))
	for _, r := range response.Results {
		ids = append(ids, r.MessageID)
		fmt.Printf("  message %d  score %.4f  queries %d\n",
			r.MessageID, r.FusedScore, r.MatchedQueryCount)
	}

	windows, err := archive.GetMergedContextWindows(ctx, c.Int64("chat"), ids, c.Int("window-size"))
	if err != nil {
		return fmt.Errorf("failed to assemble context: %w", err)
	}
	if len(windows) > 0 {
		fmt.Println()
		fmt.Println(archive.FormatWindows(windows))
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	if c.Bool("once") {
		more := archive.RunIndexingTick(context.Background())
		if more {
			fmt.Fprintln(os.Stderr, "pass complete, more work remains")
		} else {
			fmt.Fprintln(os.Stderr, "pass complete, archive is caught up")
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := archive.RunIndexing(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	stats, err := archive.GetIndexingStats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}

	for name, s := range stats {
		fmt.Printf("%-12s total %-8d indexed %-8d pending %d\n", name, s.Total, s.Indexed, s.Pending)
	}
	return nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one export file argument is required")
	}

	file, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	export, err := ingest.ReadExport(file)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}

	archive, err := openArchive(c)
	if err != nil {
		return err
	}
	defer archive.Close()

	importer, err := archive.NewImporter(ingest.WithBatchSize(c.Int("batch-size")))
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}
	defer importer.Release()

	stored, err := importer.Import(context.Background(), export)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "imported %d messages from chat %d\n", stored, export.ChatID)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
