package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postvault/internal/config"
	"postvault/internal/metrics"
	"postvault/internal/store"
	"postvault/internal/theme"
)

const defaultConfigPath = "./postvault.yaml"

func newRootCommand(log *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{
		Use:           "postvault",
		Short:         "Archive social-post exports with dedup and fuzzy search",
		Long:          theme.Banner(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newInitCommand(log),
		newImportCommand(log),
		newStatsCommand(log),
		newSearchCommand(log),
		newTagCommand(log),
		newProfileCommand(log),
		newFetchCommand(log),
	)
	return root
}

// loadConfig reads the YAML config, falling back to defaults when the file
// does not exist so the CLI works out of the box.
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		cfg = config.Default()
		cfg.ResolveEnv()
		return cfg, nil
	}
	return cfg, err
}

// openStore opens the configured database and starts the metrics server
// when one is configured. A store-open failure aborts the whole invocation.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	metrics.StartServer(cfg.Metrics.Addr)
	return st, nil
}
