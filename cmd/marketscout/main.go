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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/marketscout"
	"github.com/poiesic/marketscout/config"
	"github.com/poiesic/marketscout/core"
	"github.com/poiesic/marketscout/indexer"
	"github.com/poiesic/marketscout/server"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "marketscout",
		Usage:   "Compliance-screened market research assistant",
		Version: marketscout.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (default: ./marketscout.yaml if present)",
			},
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
				Name:   "serve",
				Usage:  "Serve the HTTP API (MCP is mounted at /mcp)",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default from config)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer one research question",
				ArgsUsage: "<query>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "ticker",
						Aliases: []string{"t"},
						Usage:   "Explicit ticker symbol, e.g. NVDA or TCS.NS",
					},
					&cli.StringFlag{
						Name:  "country",
						Usage: "Two-letter country code of the listing",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full answer as JSON",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the market_research tool over MCP stdio",
				Action: mcpCommand,
			},
			{
				Name:   "index",
				Usage:  "Embed documents into the semantic store",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Text file with one document per line",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to embed per call",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:  "trends",
				Usage: "Inspect and seed the search-trend cache",
				Subcommands: []*cli.Command{
					{
						Name:      "get",
						Usage:     "Print cached or freshly fetched trend observations",
						ArgsUsage: "<term>",
						Action:    trendsGetCommand,
					},
					{
						Name:   "import",
						Usage:  "Seed the cache from a JSON file mapping term to observations",
						Action: trendsImportCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "file",
								Aliases:  []string{"f"},
								Usage:    "JSON file, e.g. {\"NVDA\": [\"NVDA: 42\"]}",
								Required: true,
							},
						},
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
}

// applyLogConfig replaces the flag-configured logger with the config's
// level and format unless --log-level was given explicitly.
func applyLogConfig(c *cli.Context, cfg config.LogConfig) error {
	if c.IsSet("log-level") {
		return nil
	}
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	}
	return nil
}

func openApp(c *cli.Context) (*marketscout.App, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := applyLogConfig(c, cfg.Log); err != nil {
		return nil, err
	}
	return marketscout.Open(c.Context, cfg)
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	srv, err := app.NewServer()
	if err != nil {
		return err
	}
	addr := c.String("addr")
	if addr == "" {
		addr = app.Config().Server.Addr
	}
	return srv.ListenAndServe(ctx, addr)
}

func askCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("a query is required")
	}

	ctx, stop := signalContext(c)
	defer stop()

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	ans := app.Ask(ctx, query, c.String("ticker"), c.String("country"))
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(ans)
	}
	printAnswer(c, ans)
	return nil
}

func printAnswer(c *cli.Context, ans *core.Answer) {
	w := c.App.Writer
	if ans.Error != "" {
		fmt.Fprintln(w, ans.Error)
		return
	}
	fmt.Fprintf(w, "Ticker: %s (%s)\n\n%s\n", ans.Ticker, ans.Country, ans.Response)
	for _, d := range ans.Diagnostics {
		fmt.Fprintf(w, "  [%s] %s\n", d.Stage, d.Detail)
	}
}

func mcpCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	return server.ServeStdio(ctx, app.NewMCPServer())
}

func indexCommand(c *cli.Context) error {
	ctx, stop := signalContext(c)
	defer stop()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open documents: %w", err)
	}
	docs, err := indexer.ReadDocuments(f)
	f.Close()
	if err != nil {
		return err
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	ix, err := app.NewIndexer(&indexer.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}, c.App.Writer)
	if err != nil {
		return err
	}
	_, err = ix.Run(ctx, docs)
	return err
}

func trendsGetCommand(c *cli.Context) error {
	term := strings.TrimSpace(c.Args().First())
	if term == "" {
		return errors.New("a term is required")
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	for _, line := range app.Trends().Get(c.Context, term) {
		fmt.Fprintln(c.App.Writer, line)
	}
	return nil
}

func trendsImportCommand(c *cli.Context) error {
	raw, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}
	var entries map[string][]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("failed to parse cache file: %w", err)
	}

	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := app.Trends().Import(c.Context, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Imported %d of %d entries\n", n, len(entries))
	return nil
}
