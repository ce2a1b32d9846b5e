// Package main is the pagerag CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/pagerag/internal/cli"
	"github.com/hyperjump/pagerag/internal/config"
	"github.com/hyperjump/pagerag/internal/models"
	"github.com/hyperjump/pagerag/internal/server"
	"github.com/hyperjump/pagerag/internal/watcher"
	"github.com/hyperjump/pagerag/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/pagerag/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if present, and a missing default file yields the built-in
// defaults. Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "rebuild":
		runRebuild()
	case "status":
		runStatus()
	case "pages":
		runPages()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("pagerag version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (lifecycle events, config reloads, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode, version)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if cfg.Index.RebuildOnStartOrDefault() {
		if _, err := components.Indexer.Rebuild(context.Background()); err != nil {
			logger.Warn("startup rebuild failed; serving an empty index", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.ReloadConfig && resolvedConfigPath != "" {
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		w := watcher.NewWatcher([]string{resolvedConfigPath}, func(path string) {
			reloadSearchConfig(path, components, logger)
		}, watchOpts...)
		if err := w.Start(ctx); err != nil {
			logger.Warn("config watcher not started", zap.String("path", resolvedConfigPath), zap.Error(err))
		}
	}

	srv := server.NewServer(components.Engine, components.Indexer, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// reloadSearchConfig re-reads path and applies the settings that can change live.
// A config that fails to load keeps the current settings.
func reloadSearchConfig(path string, components *Components, logger *zap.Logger) {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	components.Engine.SetMaxHits(cfg.Search.MaxHits)
	logger.Info("config reloaded", zap.String("path", path), zap.Int("max_hits", components.Engine.MaxHits()))
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: pagerag search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Results are ranked by fingerprint similarity.
  • -locale keeps pages of one locale (exact match).
  • -path keeps pages whose path starts with the given prefix.
  • -limit caps the result count below the configured max_hits.

Examples:
  pagerag search apple pie
  pagerag search -locale en -path docs/ "getting started"
  pagerag search -server "" -config ./config.yaml apple   # query the page database directly
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "pagerag search apple -locale en"
// would otherwise leave -locale unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseFormatOrExit(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return format
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = rebuild from the page database and query directly)")
	locale := fs.String("locale", "", "only return pages of this locale")
	pathPrefix := fs.String("path", "", "only return pages whose path starts with this prefix")
	limit := fs.Int("limit", 0, "maximum number of results (0 = configured max_hits)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one result per line), or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format := parseFormatOrExit(*outputFormat)

	req := &models.SearchRequest{
		Query: queryStr,
		QueryOptions: models.QueryOptions{
			Locale:  *locale,
			Path:    *pathPrefix,
			MaxHits: *limit,
		},
	}

	var result *models.QueryResult
	if *serverURL != "" {
		client := newAPIClient(*serverURL)
		r, err := client.Search(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		result = r
	} else {
		components, logger := localComponentsOrExit(*configPath)
		defer logger.Sync()
		defer components.Close()
		if _, err := components.Indexer.Rebuild(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			os.Exit(1)
		}
		r, err := components.Engine.Query(context.Background(), req.Query, req.QueryOptions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		result = r
	}
	if err := cli.WriteQueryResults(os.Stdout, queryStr, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runRebuild() {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", "", "server URL to trigger a rebuild on (empty = one-shot rebuild in this process)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatOrExit(*outputFormat)

	var report *models.RebuildReport
	if *serverURL != "" {
		r, err := newAPIClient(*serverURL).Rebuild(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			os.Exit(1)
		}
		report = r
	} else {
		components, logger := localComponentsOrExit(*configPath)
		defer logger.Sync()
		defer components.Close()
		r, err := components.Indexer.Rebuild(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			os.Exit(1)
		}
		report = r
	}
	if err := cli.WriteRebuildReport(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (direct mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = rebuild locally and report)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormatOrExit(*outputFormat)

	var status *models.IndexStatus
	if *serverURL != "" {
		s, err := newAPIClient(*serverURL).Status(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = s
	} else {
		components, logger := localComponentsOrExit(*configPath)
		defer logger.Sync()
		defer components.Close()
		if _, err := components.Indexer.Rebuild(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Rebuild failed: %v\n", err)
			os.Exit(1)
		}
		status = components.Status()
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// localComponentsOrExit loads config and wires components for direct mode.
func localComponentsOrExit(configPath string) (*Components, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewQuietLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	return components, logger
}

func printUsage() {
	fmt.Println(`pagerag - In-process page similarity index

Usage:
  pagerag server [flags]           Start the HTTP server
  pagerag search [flags] <query>   Find pages similar to a query
  pagerag rebuild [flags]          Rebuild the index from the page database
  pagerag status [flags]           Show index status
  pagerag pages <action> [flags]   Import, delete or count rows of the SQLite page database
  pagerag init [flags]             Write a config file with the built-in defaults
  pagerag version                  Show version
  pagerag help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/pagerag/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to query the page database directly.
  --locale string    Only return pages of this locale
  --path string      Only return pages under this path prefix
  --limit int        Maximum number of results (default: configured max_hits)
  --output string    Output format: text, compact or json (default: text)

Rebuild Flags:
  --config string    Config file path (direct mode)
  --server string    Trigger the rebuild on a running server instead
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (direct mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct mode.
  --output string    Output format: text or json (default: text)

Examples:
  pagerag server
  pagerag search "apple pie"
  pagerag search --locale en --path docs/ getting started
  pagerag search --output json "query"
  pagerag rebuild --server http://localhost:8080
  pagerag status --output json`)
}
