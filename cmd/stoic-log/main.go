// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the stoic-log CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/stoic-log/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the stoic-log CLI.
var rootCmd = &cobra.Command{
	Use:   "stoic-log",
	Short: "Extract the daily entries of The Daily Stoic from its PDF",
	Long: `stoic-log reads the PDF of The Daily Stoic page by page and splits each
daily page into its date, title, quote, quote source and explanation.

Use parse to produce the date-keyed result file, store to load a result
into the local archive, and lookup to read entries back.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zerolog.TimeFieldFormat = time.RFC3339
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		if viper.GetBool("verbose") {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./stoic-log.yaml or ~/.config/stoic-log/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().String("store-dir", ".stoic-log", "directory holding the entry archive")
	bindFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	bindFlag("store.dir", rootCmd.PersistentFlags().Lookup("store-dir"))

	setBookDefaults()
	viper.SetDefault("store.max_results", 20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("stoic-log")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "stoic-log"))
		}
	}

	viper.SetEnvPrefix("STOIC_LOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setBookDefaults registers the default edition layout under the book.*
// keys so config files only need to name what differs.
func setBookDefaults() {
	def := types.DefaultBookConfig()
	viper.SetDefault("book.first_page", def.FirstPage)
	viper.SetDefault("book.last_page", def.LastPage)
	viper.SetDefault("book.skip_pages", def.SkipPages)
	viper.SetDefault("book.open_quote", def.OpenQuote)
	viper.SetDefault("book.close_quote", def.CloseQuote)
	viper.SetDefault("book.source_dash", def.SourceDash)
	viper.SetDefault("book.prefix_length", def.PrefixLength)
	viper.SetDefault("book.min_lines", def.MinLines)
}

// bookConfig reads the book.* keys.
func bookConfig() types.BookConfig {
	return types.BookConfig{
		FirstPage:    viper.GetInt("book.first_page"),
		LastPage:     viper.GetInt("book.last_page"),
		SkipPages:    viper.GetIntSlice("book.skip_pages"),
		OpenQuote:    viper.GetString("book.open_quote"),
		CloseQuote:   viper.GetString("book.close_quote"),
		SourceDash:   viper.GetString("book.source_dash"),
		PrefixLength: viper.GetInt("book.prefix_length"),
		MinLines:     viper.GetInt("book.min_lines"),
	}
}

// storeConfig reads the store.* keys.
func storeConfig() types.StoreConfig {
	return types.StoreConfig{
		Dir:        viper.GetString("store.dir"),
		MaxResults: viper.GetInt("store.max_results"),
	}
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
