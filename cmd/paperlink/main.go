// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperlink CLI. It resolves
// arXiv references, normalizes paper metadata, exports papers into
// project documents and lists a student's assigned projects.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperlink/internal/docstore"
	"github.com/pdiddy/paperlink/internal/export"
	"github.com/pdiddy/paperlink/internal/fetch"
	"github.com/pdiddy/paperlink/internal/ingest"
	"github.com/pdiddy/paperlink/internal/logging"
	"github.com/pdiddy/paperlink/internal/secrets"
	"github.com/pdiddy/paperlink/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout     = 30 * time.Second
	defaultMinInterval = 3 * time.Second
	defaultUserAgent   = "paperlink/0.1"
	secretsDir         = ".secrets/"
	dotEnvFile         = ".env"
)

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// log is built from --log-mode before any subcommand runs.
	log = logging.Nop()
)

// rootCmd is the base command for the paperlink CLI.
var rootCmd = &cobra.Command{
	Use:   "paperlink",
	Short: "Attach arXiv papers to projects and resolve assigned projects",
	Long: `paperlink turns an arXiv reference (abstract URL or bare identifier) into a
normalized paper record, appends it to a project's resources without
duplicates, and joins a student's assignments with their projects.

Metadata comes from the arXiv Atom feed, falling back to the rendered
abstract page when the feed cannot be fetched or parsed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetString("log_mode"))
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		log = l

		if err := secrets.LoadDotEnv(dotEnvFile); err != nil {
			return err
		}
		s, err := secrets.Load(secretsDir, log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperlink.yaml or ~/.config/paperlink/config.yaml)")
	rootCmd.PersistentFlags().String("db", "paperlink.db", "SQLite document store path")
	rootCmd.PersistentFlags().String("log-mode", "development", "log format: development or production")

	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log_mode", rootCmd.PersistentFlags().Lookup("log-mode"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperlink")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperlink"))
		}
	}

	viper.SetEnvPrefix("PAPERLINK")
	viper.AutomaticEnv()

	viper.SetDefault("timeout", defaultTimeout)
	viper.SetDefault("min_interval", defaultMinInterval)
	viper.SetDefault("user_agent", defaultUserAgent)
	viper.SetDefault("chunk_size", docstore.MaxInValues)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles stage configuration from viper, which layers
// flags, PAPERLINK_* environment variables and the config file.
func pipelineConfig() types.PipelineConfig {
	userAgent := viper.GetString("user_agent")
	if email := loadedSecrets.ContactEmail(); email != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", userAgent, email)
	}

	var sources []types.Source
	for _, s := range viper.GetStringSlice("sources") {
		sources = append(sources, types.Source(s))
	}

	return types.PipelineConfig{
		Ingest: types.IngestConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:     viper.GetDuration("timeout"),
				UserAgent:   userAgent,
				MaxRetries:  viper.GetInt("max_retries"),
				MinInterval: viper.GetDuration("min_interval"),
			},
			Sources:    sources,
			ActingUser: viper.GetString("user"),
		},
		Store: types.StoreConfig{Path: viper.GetString("db")},
		Join:  types.JoinConfig{ChunkSize: viper.GetInt("chunk_size")},
	}
}

// actingUser returns the --user flag, the configured user, or the
// default-user secret, in that order.
func actingUser(cmd *cobra.Command, cfg types.IngestConfig) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if cfg.ActingUser != "" {
		return cfg.ActingUser
	}
	return loadedSecrets.DefaultUser()
}

func openStore(cfg types.StoreConfig) (*docstore.SQLite, error) {
	store, err := docstore.OpenSQLite(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", cfg.Path, err)
	}
	return store, nil
}

// newIngester wires the HTTP transport, fetcher and exporter. store may be
// nil for commands that never export.
func newIngester(cfg types.IngestConfig, store docstore.Store) (*ingest.Ingester, error) {
	for _, s := range cfg.Sources {
		if !s.Valid() {
			return nil, fmt.Errorf("unknown source %q (want feed or rendered)", s)
		}
	}
	client := &http.Client{Timeout: cfg.Timeout}
	transport := fetch.NewHTTPTransport(client, cfg.HTTPConfig, log)

	in := &ingest.Ingester{
		Fetcher: &fetch.Fetcher{Transport: transport, Log: log},
		Sources: cfg.Sources,
		Log:     log,
	}
	if store != nil {
		in.Exporter = export.New(store, log)
	}
	return in, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
