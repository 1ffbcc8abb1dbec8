// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubsync CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubsync/internal/backup"
	"github.com/pdiddy/pubsync/internal/ledger"
	"github.com/pdiddy/pubsync/internal/secrets"
	"github.com/pdiddy/pubsync/internal/sync"
	"github.com/pdiddy/pubsync/internal/wiki"
	"github.com/pdiddy/pubsync/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

const (
	defaultBaseURL = "https://wms.diz-ag.med.ovgu.de/"
	defaultPageID  = "165485055"
)

// rootCmd is the base command for the pubsync CLI.
var rootCmd = &cobra.Command{
	Use:   "pubsync",
	Short: "Keep the wiki publications table in sync with PubMed",
	Long: `pubsync maintains the publications table on a Confluence wiki page. It
discovers new publications on PubMed, scores them for relevance, and appends
the relevant ones as table rows. Every mutation saves a local backup of the
page first, and an integration ledger prevents the same publication from
being added twice across runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
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
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubsync.yaml or ~/.config/pubsync/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory holding credential files")
	rootCmd.PersistentFlags().String("base-url", "", "wiki base URL")
	rootCmd.PersistentFlags().String("page-id", "", "publications page id")
	rootCmd.PersistentFlags().String("backup-dir", "", "directory for page backups")
	rootCmd.PersistentFlags().String("ledger-dir", "", "directory for the integration ledger")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubsync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubsync"))
		}
	}

	viper.SetDefault("wiki.base_url", defaultBaseURL)
	viper.SetDefault("wiki.page_id", defaultPageID)
	viper.SetDefault("wiki.timeout", 30*time.Second)
	viper.SetDefault("backup.dir", "backups")
	viper.SetDefault("ledger.dir", ".pubsync")
	viper.SetDefault("discovery.query_delay", time.Second)
	viper.SetDefault("discovery.max_per_query", 5)
	viper.SetDefault("discovery.min_score", 60)

	viper.SetEnvPrefix("PUBSYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// flagOrConfig resolves a string setting from the flag first, the config
// file second.
func flagOrConfig(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}

func wikiConfig(cmd *cobra.Command) types.WikiConfig {
	return types.WikiConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("wiki.timeout"),
			UserAgent: "pubsync/" + version,
		},
		BaseURL: flagOrConfig(cmd, "base-url", "wiki.base_url"),
		PageID:  flagOrConfig(cmd, "page-id", "wiki.page_id"),
	}
}

// pipelineConfig gathers all stage settings from flags, the config file,
// and the loaded secrets.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	return types.PipelineConfig{
		Wiki:   wikiConfig(cmd),
		Backup: types.BackupConfig{Dir: flagOrConfig(cmd, "backup-dir", "backup.dir")},
		Discovery: types.DiscoveryConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("wiki.timeout"),
				UserAgent: "pubsync/" + version,
			},
			Tool:        "pubsync",
			Email:       loadedSecrets[secrets.KeyEmail],
			APIKey:      loadedSecrets[secrets.KeyNCBI],
			MaxPerQuery: viper.GetInt("discovery.max_per_query"),
			MinScore:    viper.GetInt("discovery.min_score"),
			QueryDelay:  viper.GetDuration("discovery.query_delay"),
		},
		Ledger: types.LedgerConfig{Dir: flagOrConfig(cmd, "ledger-dir", "ledger.dir")},
	}
}

// newSession builds an authenticated wiki session from the loaded
// credentials. A cookie header takes precedence over basic auth.
func newSession(ctx context.Context, cmd *cobra.Command) (*wiki.Session, error) {
	cfg := wikiConfig(cmd)
	session := wiki.NewSession(cfg, nil)

	if cookie := secrets.CookieHeader(loadedSecrets); cookie != "" {
		if err := session.AuthenticateCookies(ctx, cookie); err != nil {
			return nil, err
		}
		return session, nil
	}

	user := loadedSecrets[secrets.KeyUser]
	pass := loadedSecrets[secrets.KeyPassword]
	if user != "" && pass != "" {
		if err := session.AuthenticateBasic(ctx, user, pass); err != nil {
			return nil, err
		}
		return session, nil
	}

	return nil, fmt.Errorf("no credentials: provide %s or %s and %s in the secrets directory",
		secrets.KeyCookie, secrets.KeyUser, secrets.KeyPassword)
}

// newOrchestrator wires the orchestrator for a subcommand. The returned
// cleanup closes the ledger.
func newOrchestrator(ctx context.Context, cmd *cobra.Command) (*sync.Orchestrator, func(), error) {
	session, err := newSession(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}

	cfg := pipelineConfig(cmd)
	store, err := ledger.NewStore(cfg.Ledger.Dir)
	if err != nil {
		return nil, nil, err
	}

	o := &sync.Orchestrator{
		Pages:   wiki.NewRepository(session),
		Backups: backup.NewStore(cfg.Backup.Dir),
		Ledger:  store,
		PageID:  cfg.Wiki.PageID,
		Out:     os.Stdout,
	}
	cleanup := func() { store.Close() }
	return o, cleanup, nil
}

// backupStore builds the backup store without touching the network, for
// subcommands that only read local state.
func backupStore(cmd *cobra.Command) *backup.Store {
	return backup.NewStore(flagOrConfig(cmd, "backup-dir", "backup.dir"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
