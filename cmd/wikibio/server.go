package wikibio

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/wikibio"
	"github.com/soundprediction/wikibio/pkg/alert"
	"github.com/soundprediction/wikibio/pkg/config"
	"github.com/soundprediction/wikibio/pkg/history"
	"github.com/soundprediction/wikibio/pkg/logger"
	"github.com/soundprediction/wikibio/pkg/nlp"
	"github.com/soundprediction/wikibio/pkg/server"
	"github.com/soundprediction/wikibio/pkg/telemetry"
	"github.com/soundprediction/wikibio/pkg/wikidata"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the wikibio HTTP server",
	Long: `Start the wikibio HTTP server to provide the chat API.

The server provides endpoints for:
- Creating chat sessions and continuing conversations
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Wikidata flags
	serverCmd.Flags().String("wikidata-api-url", "", "Wikidata search API URL")
	serverCmd.Flags().String("wikidata-sparql-url", "", "Wikidata SPARQL endpoint URL")
	serverCmd.Flags().String("wikidata-user-agent", "", "User-Agent header for Wikidata requests")

	// NLP flags
	serverCmd.Flags().String("nlp-model", "", "Model name")
	serverCmd.Flags().String("nlp-api-key", "", "API key")
	serverCmd.Flags().String("nlp-base-url", "", "Base URL for OpenAI-compatible services")

	// History flags
	serverCmd.Flags().String("history-dsn", "", "PostgreSQL DSN for the chat log (in-memory when empty)")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry (errors)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	// History store; its Postgres connection, when present, also
	// receives error telemetry.
	var store history.Store
	var telemetryDB *sql.DB
	if cfg.History.DSN != "" {
		pg, err := history.NewPostgresStore(cfg.History.DSN, cfg.History.Table, nil)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		store = pg
		telemetryDB = pg.DB()
	} else {
		store = history.NewMemoryStore()
	}
	defer store.Close()

	log, flushTelemetry, err := newLogger(cfg, telemetryDB)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer flushTelemetry()

	if cfg.History.DSN == "" {
		log.Warn("no history DSN configured, chat sessions will not survive restarts")
	}

	ctx := context.Background()
	if err := store.CreateTables(ctx); err != nil {
		return fmt.Errorf("failed to prepare history store: %w", err)
	}

	// Wikidata client, optionally behind a circuit breaker
	wd := newWikidataClient(cfg, log)
	var executor wikibio.Executor = wd
	if cfg.CircuitBreaker.Enabled {
		var alerter alert.Alerter = &alert.NoOpAlerter{}
		if cfg.Alert.Enabled {
			alerter = alert.NewEmailAlerter(cfg.Alert)
		}
		executor = wikidata.NewBreakerExecutorNotify(wd, cfg.CircuitBreaker, func(name, from, to string) {
			log.Warn("circuit breaker state change", "breaker", name, "from", from, "to", to)
			if to == "open" {
				if err := alerter.Alert(
					fmt.Sprintf("%s circuit breaker open", name),
					fmt.Sprintf("The %s circuit breaker transitioned from %s to %s. The query service is failing.", name, from, to),
				); err != nil {
					log.Error("failed to send breaker alert", "error", err)
				}
			}
		})
	}

	lookupClient := wikibio.NewClient(wd, executor, &wikibio.Config{
		Language: cfg.Wikidata.Language,
	}, log)

	// Language model client with retries
	model, err := newModelClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize language model client: %w", err)
	}
	defer model.Close()

	// Create and setup server
	srv := server.New(cfg, lookupClient, model, store, log)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.Info("received signal", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		log.Info("server stopped gracefully")
		return nil
	}
}

// newLogger builds the colored terminal logger, wrapped in the
// telemetry handlers: the SQL handler when a database connection is
// shared by the history store, and the parquet handler when a path is
// configured. The returned function flushes buffered telemetry and
// should run on shutdown.
func newLogger(cfg *config.Config, db *sql.DB) (*slog.Logger, func(), error) {
	level := parseLogLevel(cfg.Log.Level)
	var handler slog.Handler = logger.NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	if db != nil {
		sqlHandler, err := telemetry.NewSQLHandler(handler, db)
		if err != nil {
			return nil, nil, err
		}
		handler = sqlHandler
	}

	flush := func() {}
	if cfg.Telemetry.ParquetPath != "" {
		parquetHandler, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath)
		if err != nil {
			return nil, nil, err
		}
		handler = parquetHandler
		flush = func() {
			if err := parquetHandler.Flush(); err != nil {
				fmt.Fprintln(os.Stderr, "failed to flush telemetry:", err)
			}
		}
	}

	return slog.New(handler), flush, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newWikidataClient(cfg *config.Config, log *slog.Logger) *wikidata.Client {
	opts := []wikidata.Option{
		wikidata.WithLogger(log),
	}
	if cfg.Wikidata.APIURL != "" {
		opts = append(opts, wikidata.WithAPIURL(cfg.Wikidata.APIURL))
	}
	if cfg.Wikidata.SPARQLURL != "" {
		opts = append(opts, wikidata.WithSPARQLURL(cfg.Wikidata.SPARQLURL))
	}
	if cfg.Wikidata.UserAgent != "" {
		opts = append(opts, wikidata.WithUserAgent(cfg.Wikidata.UserAgent))
	}
	if cfg.Wikidata.Timeout > 0 {
		opts = append(opts, wikidata.WithTimeout(time.Duration(cfg.Wikidata.Timeout)*time.Second))
	}
	return wikidata.NewClient(opts...)
}

// resolveModelConfig maps the configured provider to client settings.
// The "openai" provider talks to the hosted API unless a base URL is
// given; "ollama" defaults to a local instance speaking the OpenAI
// protocol.
func resolveModelConfig(cfg *config.Config) (nlp.Config, error) {
	temperature := cfg.NLP.Temperature
	maxTokens := cfg.NLP.MaxTokens
	mc := nlp.Config{
		Model:       cfg.NLP.Model,
		BaseURL:     cfg.NLP.BaseURL,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}

	switch cfg.NLP.Provider {
	case "openai":
	case "ollama", "":
		if mc.BaseURL == "" {
			mc.BaseURL = "http://localhost:11434/v1"
		}
	default:
		return nlp.Config{}, fmt.Errorf("unknown nlp provider %q", cfg.NLP.Provider)
	}
	return mc, nil
}

func newModelClient(cfg *config.Config) (nlp.Client, error) {
	mc, err := resolveModelConfig(cfg)
	if err != nil {
		return nil, err
	}
	client, err := nlp.NewOpenAIClient(cfg.NLP.APIKey, mc)
	if err != nil {
		return nil, err
	}
	return nlp.NewRetryClient(client, nil), nil
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Wikidata flags
	if cmd.Flags().Changed("wikidata-api-url") {
		cfg.Wikidata.APIURL, _ = cmd.Flags().GetString("wikidata-api-url")
	}
	if cmd.Flags().Changed("wikidata-sparql-url") {
		cfg.Wikidata.SPARQLURL, _ = cmd.Flags().GetString("wikidata-sparql-url")
	}
	if cmd.Flags().Changed("wikidata-user-agent") {
		cfg.Wikidata.UserAgent, _ = cmd.Flags().GetString("wikidata-user-agent")
	}

	// NLP flags
	if cmd.Flags().Changed("nlp-model") {
		cfg.NLP.Model, _ = cmd.Flags().GetString("nlp-model")
	}
	if cmd.Flags().Changed("nlp-api-key") {
		cfg.NLP.APIKey, _ = cmd.Flags().GetString("nlp-api-key")
	}
	if cmd.Flags().Changed("nlp-base-url") {
		cfg.NLP.BaseURL, _ = cmd.Flags().GetString("nlp-base-url")
	}

	// History flags
	if cmd.Flags().Changed("history-dsn") {
		cfg.History.DSN, _ = cmd.Flags().GetString("history-dsn")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
