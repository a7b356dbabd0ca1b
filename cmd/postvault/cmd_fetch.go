package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postvault/internal/cmdlog"
	"postvault/internal/fetch"
)

func newFetchCommand(log *zap.SugaredLogger) *cobra.Command {
	var cfgPath, outDir string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch feeds for active substack profiles into import-ready files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run(log, "fetch", func() error {
				cfg, err := loadConfig(cfgPath)
				if err != nil {
					return err
				}
				if outDir != "" {
					cfg.Fetch.OutputDir = outDir
				}
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()

				res, err := fetch.New(st, log, cfg.Fetch).Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Fetched %d documents from %d profiles\n", res.Documents, res.Profiles)
				for _, f := range res.Files {
					fmt.Println(" ", f)
				}
				if len(res.Files) > 0 {
					fmt.Println("Run `postvault import` on the new directory to archive them.")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", defaultConfigPath, "config path")
	cmd.Flags().StringVar(&outDir, "out", "", "override output directory")
	return cmd
}
