package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postvault/internal/cmdlog"
	"postvault/internal/ingest"
)

func newImportCommand(log *zap.SugaredLogger) *cobra.Command {
	var cfgPath, platform, scriptName string
	cmd := &cobra.Command{
		Use:   "import <directory>",
		Short: "Ingest a directory of exported post documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run(log, "import", func() error {
				return runImport(cmd.Context(), log, cfgPath, args[0], platform, scriptName)
			})
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", defaultConfigPath, "config path")
	cmd.Flags().StringVar(&platform, "platform", "", "override configured platform")
	cmd.Flags().StringVar(&scriptName, "script-name", "postvault import", "script name recorded on the run")
	return cmd
}

func runImport(ctx context.Context, log *zap.SugaredLogger, cfgPath, dir, platform, scriptName string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.Newf("directory not found: %s", dir)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if platform == "" {
		platform = cfg.Platform
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := ingest.StartRun(ctx, st, scriptName, platform)
	if err != nil {
		return err
	}

	importer := ingest.NewImporter(st, log, platform)
	stats, importErr := importer.ImportDirectory(ctx, dir, run)
	abortMsg := ""
	if importErr != nil {
		abortMsg = importErr.Error()
	}
	if err := run.Complete(ctx, stats, abortMsg); err != nil {
		return err
	}

	fmt.Println("\nImport Summary:")
	fmt.Printf("  Run ID:     %s\n", run.ID())
	fmt.Printf("  Processed:  %d\n", stats.Processed)
	fmt.Printf("  New:        %d\n", stats.New)
	fmt.Printf("  Duplicates: %d\n", stats.Duplicates)
	fmt.Printf("  Errors:     %d\n", stats.Errors)
	return importErr
}
