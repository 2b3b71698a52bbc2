package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minewatch/internal/config"
	"github.com/kailas-cloud/minewatch/internal/logger"
	"github.com/kailas-cloud/minewatch/internal/repository/usagefile"
	registryuc "github.com/kailas-cloud/minewatch/internal/usecase/registry"
)

var usageFilePath string

var rootCmd = &cobra.Command{
	Use:   "minewatch",
	Short: "Track water and land usage against annual per-site limits",
	Long: `Minewatch tracks water and land usage for a fixed set of mining
operations against their annual water allowances. Records persist to a flat
text file. Run without a subcommand for the interactive menu, or use
"serve" for the HTTP API.`,
	RunE: runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&usageFilePath, "file", "",
		"usage file path (default from config, falling back to mine_usage.txt)")
}

// setup loads config, builds the logger, and constructs the registry on the
// file store. Shared by the menu and serve commands.
func setup(ctx context.Context) (config.Config, *zap.Logger, *registryuc.Service, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if usageFilePath != "" {
		cfg.Storage.Path = usageFilePath
	}

	log, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("create logger: %w", err)
	}

	limits := make([]registryuc.SiteLimit, len(cfg.Sites))
	for i, s := range cfg.Sites {
		limits[i] = registryuc.SiteLimit{Name: s.Name, WaterLimit: s.WaterLimitAcreFeet}
	}

	store := usagefile.New(cfg.Storage.Path)
	reg, err := registryuc.New(ctx, store, limits, log)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("build registry: %w", err)
	}

	return cfg, log, reg, nil
}
