// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/stoic-log/internal/export"
)

var storeCmd = &cobra.Command{
	Use:   "store <result-file>",
	Short: "Load a parse result into the entry archive",
	Long: `Store reads a JSON or YAML result written by parse and loads it into a
SQLite archive under --store-dir. Entries already present are updated in
place; unchanged entries are counted and left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := export.ReadFile(args[0])
		if err != nil {
			return err
		}
		return ingestEntries(cmd.Context(), entries)
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
}
