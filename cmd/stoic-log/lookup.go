// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/stoic-log/internal/store"
	"github.com/pdiddy/stoic-log/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [date]",
	Short: "Print entries from the archive by date or text",
	Long: `Lookup prints the entry for a date (for example "lookup January 1") or,
with --query, every entry whose title, quote, source or explanation
contains the text. Run store or parse --store first.`,
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	date := strings.Join(args, " ")

	if date == "" && query == "" {
		return fmt.Errorf("date or --query required")
	}

	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	var results []types.Entry
	if date != "" {
		e, err := s.Lookup(cmd.Context(), date)
		if err != nil {
			return err
		}
		results = append(results, e)
	} else {
		results, err = s.Search(cmd.Context(), store.QueryOptions{Query: query, Limit: limit})
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	}
	return formatEntries(os.Stdout, results)
}

func formatEntries(w io.Writer, entries []types.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return nil
	}

	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("-", 72))
		}
		fmt.Fprintf(w, "%s: %s\n\n%s\n%s\n\n%s\n", e.Date, e.Title, e.Quote, e.QuoteSource, e.Explanation)
	}

	if len(entries) > 1 {
		fmt.Fprintf(w, "\n%d entries\n", len(entries))
	}
	return nil
}

func init() {
	lookupCmd.Flags().String("query", "", "text to search for instead of a date")
	lookupCmd.Flags().Int("limit", 0, "maximum results for --query (0 = use default)")
	lookupCmd.Flags().Bool("json", false, "output entries as JSON")

	rootCmd.AddCommand(lookupCmd)
}
