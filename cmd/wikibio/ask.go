package wikibio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/wikibio"
	"github.com/soundprediction/wikibio/pkg/config"
	"github.com/soundprediction/wikibio/pkg/logger"
	"github.com/soundprediction/wikibio/pkg/nlp"
	"github.com/soundprediction/wikibio/pkg/wikidata"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a free-text question from the terminal",
	Long: `Run one question through the full pipeline: language detection,
question decomposition, Wikidata lookup, and answer generation.

Example:
  wikibio ask --question "Who coached FC Bayern Munich in 2017?"`,
	RunE: runAsk,
}

var (
	askQuestion string
	askTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askQuestion, "question", "", "The question to answer")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 5*time.Minute, "Overall timeout")

	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewDefaultLogger(parseLogLevel(cfg.Log.Level))

	wd := newWikidataClient(cfg, log)
	var executor wikibio.Executor = wd
	if cfg.CircuitBreaker.Enabled {
		executor = wikidata.NewBreakerExecutor(wd, cfg.CircuitBreaker)
	}
	client := wikibio.NewClient(wd, executor, &wikibio.Config{
		Language: cfg.Wikidata.Language,
	}, log)

	model, err := newModelClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize language model client: %w", err)
	}
	defer model.Close()

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	language, err := nlp.DetectLanguage(ctx, model, askQuestion)
	if err != nil {
		log.Warn("language detection failed, assuming english", "error", err)
		language = "en"
	}

	extraction, err := nlp.ExtractQuery(ctx, model, askQuestion)
	if err != nil {
		return fmt.Errorf("could not decompose the question: %w", err)
	}
	log.Info("question decomposed",
		"entity", extraction.Entity, "property", extraction.Property, "language", language)

	result, err := client.Lookup(ctx, wikibio.LookupRequest{
		EntityText:   extraction.Entity,
		PropertyText: extraction.Property,
		Year:         extraction.Year,
		Language:     language,
	})
	if errors.Is(err, wikibio.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "no matching statement found; try rephrasing the question")
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	answer, err := nlp.GenerateAnswer(ctx, model, askQuestion, result.Bio.RAGText, language)
	if err != nil {
		return fmt.Errorf("could not generate an answer: %w", err)
	}

	fmt.Println(answer)
	return nil
}
