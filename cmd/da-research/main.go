// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the da-research CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/da-research/internal/logging"
	"github.com/pdiddy/da-research/internal/secrets"
	"github.com/pdiddy/da-research/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ or the environment at startup.
var loadedSecrets map[string]string

// logger is built from the log section of the config before any subcommand runs.
var logger = logging.NewNop()

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the da-research CLI.
var rootCmd = &cobra.Command{
	Use:   "da-research",
	Short: "Research properties and development applications",
	Long: `da-research answers questions about properties and development applications.
It searches the web and a document store, reads council portal filings and
their PDFs, and files what it finds under environmental, zoning, community,
infrastructure, and historical categories with a sentiment and a source.

Each retrieval stage is also a subcommand: fetch, locate, and extract.
research runs the full pipeline; serve exposes it over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", nil)
		if err != nil {
			return err
		}
		loadedSecrets = secrets.WithEnv(s, secrets.Known...)

		l, err := logging.New(logging.Config{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
		})
		if err != nil {
			return err
		}
		logger = l

		if len(loadedSecrets) > 0 {
			keys := make([]string, 0, len(loadedSecrets))
			for k := range loadedSecrets {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", logging.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./da-research.yaml or ~/.config/da-research/da-research.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("da-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "da-research"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("DA_RESEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so AutomaticEnv overrides reach Unmarshal.
func setDefaults() {
	viper.SetDefault("http.timeout", types.DefaultTimeout)
	viper.SetDefault("http.user_agent", types.DefaultUserAgent)
	viper.SetDefault("fetch.max_chars", types.DefaultMaxChars)
	viper.SetDefault("council.max_documents", types.DefaultMaxDocuments)
	viper.SetDefault("council.ryde_base_url", "")
	viper.SetDefault("council.default_jurisdiction", "")
	viper.SetDefault("pdf.max_pages", 0)
	viper.SetDefault("pdf.max_bytes", types.DefaultMaxPDFBytes)
	viper.SetDefault("search.backend", types.DefaultSearchBackend)
	viper.SetDefault("search.max_results", types.DefaultMaxResults)
	viper.SetDefault("search.max_follow_ups", types.DefaultMaxFollowUps)
	viper.SetDefault("docstore.backend", types.DefaultDocStoreBackend)
	viper.SetDefault("docstore.page_size", types.DefaultDocPageSize)
	viper.SetDefault("docstore.project", "")
	viper.SetDefault("docstore.location", "global")
	viper.SetDefault("docstore.data_store", "")
	viper.SetDefault("docstore.serving_config", "default_config")
	viper.SetDefault("docstore.corpus_path", "")
	viper.SetDefault("reasoner.provider", types.DefaultProvider)
	viper.SetDefault("reasoner.model", "")
	viper.SetDefault("reasoner.max_steps", types.DefaultReasonerSteps)
	viper.SetDefault("run.timeout", types.DefaultRunTimeout)
	viper.SetDefault("serve.addr", types.DefaultServeAddr)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
}

// loadConfig decodes the pipeline configuration from viper, fills
// credentials from the loaded secrets, and applies defaults.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	keyName := secrets.GeminiAPIKey
	if cfg.Reasoner.Provider == "anthropic" {
		keyName = secrets.AnthropicAPIKey
	}
	cfg.Reasoner.APIKey = secretDefault(keyName, cfg.Reasoner.APIKey)
	cfg.DocStore.AccessToken = secretDefault(secrets.GCPAccessToken, cfg.DocStore.AccessToken)

	cfg.SetDefaults()
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
