package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	newscrapper "github.com/VetalKamen/news-scrapper"
	"github.com/VetalKamen/news-scrapper/config"
	"github.com/VetalKamen/news-scrapper/core"
	"github.com/VetalKamen/news-scrapper/pipeline"
	"github.com/VetalKamen/news-scrapper/reindex"
)

const appVersion = "0.1.0"

// cfg is loaded once in the Before hook and shared by every command.
var cfg *config.Config

var (
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	skippedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "news-scrapper",
		Usage:  "Scrape news articles, analyze them with an LLM and search them semantically",
		Before: setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to YAML config file",
				Value: "config.yaml",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Override the data directory",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set the logging level (debug, info, warning, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Validate configuration and data directories",
				Action: healthCommand,
			},
			{
				Name:   "version",
				Usage:  "Print version and exit",
				Action: versionCommand,
			},
			{
				Name:   "scrape",
				Usage:  "Scrape news articles and record their raw content",
				Action: scrapeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "urls-file",
						Usage:    "Path to file with URLs (one per line)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "min-chars",
						Usage: "Minimum extracted text length",
						Value: config.DefaultScrapeMinChars,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Limit number of URLs",
					},
					&cli.DurationFlag{
						Name:  "sleep",
						Usage: "Delay between requests",
					},
				},
			},
			{
				Name:   "analyze",
				Usage:  "Generate LLM summaries and topics for scraped articles",
				Action: analyzeCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Limit number of articles to analyze",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Index analyzed articles into the vector store",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Limit number of articles to index",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Semantic search over indexed news articles",
				ArgsUsage: "<query...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "k",
						Usage: "Number of results to return",
						Value: config.DefaultTopK,
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Ingest a single URL end-to-end: scrape, analyze and index",
				ArgsUsage: "<url>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "min-chars",
						Usage: "Minimum extracted characters to accept an article",
						Value: config.DefaultIngestMinChars,
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Recompute embeddings for every analyzed article",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of articles to embed in each batch",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N articles",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

// setup loads configuration and installs the default logger before any
// command runs. Values from a .env file never override the real
// environment, and command-line flags override everything.
func setup(c *cli.Context) error {
	_ = godotenv.Load()

	loaded, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if v := c.String("data-dir"); v != "" {
		loaded.DataDir = v
	}
	if v := c.String("log-level"); v != "" {
		loaded.LogLevel = v
	}

	if err := setupLogger(loaded); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

func setupLogger(cfg *config.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// openApp validates the configuration and opens the full application
// stack. Callers must Close the returned App.
func openApp() (*newscrapper.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newscrapper.Open(cfg)
}

// jsonLine renders a stage summary as a single JSON line.
func jsonLine(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func healthCommand(c *cli.Context) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	slog.Info("health check OK",
		"model", cfg.OpenAI.Model,
		"embedding_model", cfg.OpenAI.EmbeddingModel,
		"raw_log", cfg.RawLogPath(),
		"ai_log", cfg.AILogPath(),
		"vector_dir", cfg.VectorStoreDir(),
	)

	fmt.Println("OK")
	return nil
}

func versionCommand(c *cli.Context) error {
	fmt.Printf("news-scrapper %s\n", appVersion)
	return nil
}

func scrapeCommand(c *cli.Context) error {
	ctx := context.Background()

	urls, err := pipeline.ReadURLsFile(c.String("urls-file"))
	if err != nil {
		return err
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	scraper, err := app.NewScraper()
	if err != nil {
		return err
	}

	minChars := cfg.Scrape.MinChars
	if c.IsSet("min-chars") {
		minChars = c.Int("min-chars")
	}

	summary, err := scraper.Run(ctx, urls, &pipeline.ScrapeOptions{
		MinChars:    minChars,
		Limit:       c.Int("limit"),
		Sleep:       c.Duration("sleep"),
		RetryFailed: cfg.RetryFailed,
	})
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	fmt.Println(jsonLine(summary))
	return nil
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	analyzer, err := app.NewAnalyzer()
	if err != nil {
		return err
	}

	summary, err := analyzer.Run(ctx, &pipeline.AnalyzeOptions{
		Limit:       c.Int("limit"),
		RetryFailed: cfg.RetryFailed,
	})
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	fmt.Println(jsonLine(summary))
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	indexer, err := app.NewIndexer()
	if err != nil {
		return err
	}

	summary, err := indexer.Run(ctx, &pipeline.IndexOptions{
		Limit: c.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	fmt.Println(jsonLine(summary))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: search <query>")
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	searcher, err := app.NewSearcher()
	if err != nil {
		return err
	}

	k := cfg.Search.TopK
	if c.IsSet("k") {
		k = c.Int("k")
	}

	results, err := searcher.Search(ctx, query, k)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for _, r := range results {
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Rank: %d | Score: %.4f\n", r.Rank, r.Score)
		fmt.Printf("Title: %s\n", r.Entry.Meta.Title)
		fmt.Printf("URL:   %s\n", r.Entry.URL)
		fmt.Printf("Topics: %s\n", strings.Join(r.Entry.Meta.Topics, ", "))
		fmt.Println()
		fmt.Println(r.Preview(0))
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	rawURL := c.Args().First()
	if rawURL == "" {
		return fmt.Errorf("usage: ingest <url>")
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ingestor, err := app.NewIngestor()
	if err != nil {
		return err
	}

	minChars := cfg.Ingest.MinChars
	if c.IsSet("min-chars") {
		minChars = c.Int("min-chars")
	}

	res, err := ingestor.Run(ctx, rawURL, &pipeline.IngestOptions{
		MinChars:    minChars,
		RetryFailed: cfg.RetryFailed,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	switch res.Status {
	case core.StatusSkipped:
		fmt.Println(skippedStyle.Render("SKIPPED"))
		fmt.Printf("URL: %s\n", res.URL)
		fmt.Printf("Reason: %s\n", res.Detail)
		return nil
	case core.StatusFailed:
		fmt.Println(failedStyle.Render(fmt.Sprintf("FAILED stage=%s url=%s", res.Stage, res.URL)))
		fmt.Println(res.Detail)
		return cli.Exit("", 1)
	}

	fmt.Println(okStyle.Render("OK"))
	fmt.Printf("URL: %s\n", res.URL)
	fmt.Printf("Scrape: %s\n", jsonLine(res.Scrape))
	fmt.Printf("Analyze: %s\n", jsonLine(res.Analyze))
	fmt.Printf("Index: %s\n", jsonLine(res.Index))
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	reindexer, err := app.NewReindexer(reindexConfig, os.Stderr)
	if err != nil {
		return err
	}

	summary, err := reindexer.Run(ctx)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Println(jsonLine(summary))
	return nil
}
