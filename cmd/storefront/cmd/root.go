// Package cmd implements the storefront CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/closetlabs/storefront/internal/catalog"
	"github.com/closetlabs/storefront/internal/config"
	"github.com/closetlabs/storefront/internal/sdk"
	"github.com/closetlabs/storefront/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "storefront",
		Short: "CLI client for the CLO-SET Connect storefront API",
		Long: "storefront is a command-line client for the marketplace API.\n" +
			"It browses the product feed with pagination, filters and searches\n" +
			"the catalog, and manages your session and cart from the terminal.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.storefront.yaml)")
	rootCmd.PersistentFlags().
		String("api-url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("token-file", "", "session token file (overrides config)")
	rootCmd.PersistentFlags().
		String("log-level", "", "log level (debug, info, warn, error)")

	cobra.CheckErr(viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("token-file", rootCmd.PersistentFlags().Lookup("token-file")))
	cobra.CheckErr(viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")))

	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(productCmd())
	rootCmd.AddCommand(featuredCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(filterCmd())
	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(cartCmd())
	rootCmd.AddCommand(versionCommand())
}

func initConfig() {
	viper.SetEnvPrefix("STOREFRONT")
	viper.AutomaticEnv()
}

// loadConfig reads the config file (or defaults) and applies flag and
// environment overrides on top.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}

	if v := viper.GetString("api-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := viper.GetString("token-file"); v != "" {
		cfg.Storage.TokenPath = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
}

// newSDKClient builds the API client with the persistent token store
// so commands share the session established by `storefront auth login`.
func newSDKClient(cfg *config.Config, log *slog.Logger) (*sdk.Client, sdk.TokenStore, error) {
	var tokens sdk.TokenStore
	if cfg.Storage.TokenPath != "" {
		fileStore, err := sdk.NewFileTokenStore(cfg.Storage.TokenPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening token store: %w", err)
		}
		tokens = fileStore
	} else {
		tokens = sdk.NewMemoryTokenStore()
	}

	client := sdk.New(cfg.API.BaseURL,
		sdk.WithTokenStore(tokens),
		sdk.WithTimeout(cfg.API.Timeout),
		sdk.WithLogger(log),
	)
	return client, tokens, nil
}

// newProductStore wires the product list store against the live API.
func newProductStore(cfg *config.Config, client *sdk.Client, log *slog.Logger) (*catalog.Store, error) {
	dims, err := catalog.ParseDimensions(cfg.Catalog.FallbackDimensions)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return catalog.NewStore(
		sdk.NewProductService(client, log),
		catalog.WithLogger(log),
		catalog.WithFallbackDimensions(dims),
	), nil
}

// bootstrap is the shared setup for catalog commands.
func bootstrap() (*config.Config, *catalog.Store, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := newLogger(cfg)
	client, _, err := newSDKClient(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := newProductStore(cfg, client, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, log, nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
