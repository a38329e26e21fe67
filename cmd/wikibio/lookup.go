package wikibio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/wikibio"
	"github.com/soundprediction/wikibio/pkg/config"
	"github.com/soundprediction/wikibio/pkg/logger"
	"github.com/soundprediction/wikibio/pkg/wikidata"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up a fact and print the subject's biography",
	Long: `Resolve an entity and a property against Wikidata, find the statement
that held in the given year, and print the subject's biography as JSON.

Example:
  wikibio lookup --entity "FC Bayern Munich" --property "head coach" --year 2017`,
	RunE: runLookup,
}

var (
	lookupEntity   string
	lookupProperty string
	lookupYear     int
	lookupLanguage string
	lookupTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVar(&lookupEntity, "entity", "", "Entity to look up, e.g. a team or organization")
	lookupCmd.Flags().StringVar(&lookupProperty, "property", "", "Property to look up, e.g. \"head coach\"")
	lookupCmd.Flags().IntVar(&lookupYear, "year", 0, "Year the fact should hold in (default: current year)")
	lookupCmd.Flags().StringVar(&lookupLanguage, "language", "", "Label language (default from config)")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", 2*time.Minute, "Overall lookup timeout")

	lookupCmd.MarkFlagRequired("entity")
	lookupCmd.MarkFlagRequired("property")
}

func runLookup(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	req := wikibio.LookupRequest{
		EntityText:   lookupEntity,
		PropertyText: lookupProperty,
		Language:     lookupLanguage,
	}
	if cmd.Flags().Changed("year") {
		req.Year = &lookupYear
	}

	result, err := client.Lookup(ctx, req)
	if errors.Is(err, wikibio.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "no matching statement found")
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
