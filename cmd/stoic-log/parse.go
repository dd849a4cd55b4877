// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/stoic-log/internal/book"
	"github.com/pdiddy/stoic-log/internal/export"
	"github.com/pdiddy/stoic-log/internal/pagetext"
	"github.com/pdiddy/stoic-log/internal/store"
	"github.com/pdiddy/stoic-log/pkg/types"
)

const (
	defaultBookDir = "pdf_parsing"
	defaultOutput  = "pdf_parsing/Stoic_log.json"
)

var parseCmd = &cobra.Command{
	Use:   "parse [pdf-or-dir]",
	Short: "Extract the daily entries from the book PDF",
	Long: `Parse reads every daily page of the book, splits it into date, title,
quote, quote source and explanation, and writes a date-keyed JSON or YAML
file in calendar order.

The argument is the PDF itself or a directory holding it (default:
pdf_parsing/). The page range, skip list and glyphs come from the book.*
config keys and can be overridden with flags.

A malformed page stops the run unless --on-malformed=skip is given, in
which case the page is logged and left out of the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	input := defaultBookDir
	if len(args) > 0 {
		input = args[0]
	}
	pdfPath, err := pagetext.ResolvePDF(input)
	if err != nil {
		return err
	}

	src, err := pagetext.Open(cfg.Backend, pdfPath)
	if err != nil {
		return err
	}
	defer src.Close()

	log.Info().Str("pdf", pdfPath).Str("backend", string(cfg.Backend)).Int("pages", src.NumPages()).Msg("parsing book")

	res, err := book.Parse(cmd.Context(), src, cfg, log.Logger)
	res.WriteSummary(os.Stderr)
	if err != nil {
		return err
	}

	if err := export.WriteFile(cfg.Output, cfg.Format, res.Entries); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}
	fmt.Printf("Wrote %d entries to %s\n", res.Entries.Len(), cfg.Output)

	if withStore, _ := cmd.Flags().GetBool("store"); withStore {
		return ingestEntries(cmd.Context(), res.Entries)
	}
	return nil
}

// parseConfig assembles the parse settings from flags, environment,
// config file and defaults.
func parseConfig() (types.ParseConfig, error) {
	policy, err := types.ParseFailurePolicy(viper.GetString("parse.on_malformed"))
	if err != nil {
		return types.ParseConfig{}, err
	}

	cfg := types.ParseConfig{
		Book:        bookConfig(),
		Backend:     types.TextBackend(viper.GetString("parse.backend")),
		OnMalformed: policy,
		Output:      viper.GetString("parse.output"),
		Format:      types.OutputFormat(viper.GetString("parse.format")),
	}
	if cfg.Format == "" {
		cfg.Format = export.FormatFromPath(cfg.Output)
	}
	if err := cfg.Book.Validate(); err != nil {
		return types.ParseConfig{}, fmt.Errorf("invalid book config: %w", err)
	}
	return cfg, nil
}

func ingestEntries(ctx context.Context, entries *types.Entries) error {
	cfg := storeConfig()
	s, err := store.NewStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(ctx, entries)
	if err != nil {
		return err
	}
	fmt.Printf("Stored in %s: %d inserted, %d updated, %d unchanged\n",
		cfg.Dir, summary.Inserted, summary.Updated, summary.Unchanged)
	return nil
}

func init() {
	def := types.DefaultBookConfig()
	f := parseCmd.Flags()

	f.String("backend", string(types.BackendNative), "page text backend: native or pdftotext")
	f.String("output", defaultOutput, "result file path")
	f.String("format", "", "result format: json or yaml (default: from the output extension)")
	f.String("on-malformed", string(types.FailAbort), "malformed page policy: abort or skip")
	f.Int("first-page", def.FirstPage, "zero-based index of the first entry page")
	f.Int("last-page", def.LastPage, "zero-based index of the last entry page (inclusive)")
	f.IntSlice("skip-pages", def.SkipPages, "zero-based indices of non-entry pages inside the range")
	f.Int("prefix-length", def.PrefixLength, "leading characters tested for capitals on attribution lines")
	f.Bool("store", false, "also load the entries into the archive")

	bindFlag("parse.backend", f.Lookup("backend"))
	bindFlag("parse.output", f.Lookup("output"))
	bindFlag("parse.format", f.Lookup("format"))
	bindFlag("parse.on_malformed", f.Lookup("on-malformed"))
	bindFlag("book.first_page", f.Lookup("first-page"))
	bindFlag("book.last_page", f.Lookup("last-page"))
	bindFlag("book.skip_pages", f.Lookup("skip-pages"))
	bindFlag("book.prefix_length", f.Lookup("prefix-length"))

	rootCmd.AddCommand(parseCmd)
}
