package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postvault/internal/cmdlog"
	"postvault/internal/config"
	"postvault/internal/theme"
)

func newInitCommand(log *zap.SugaredLogger) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run(log, "init", func() error {
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				abs, _ := filepath.Abs(path)
				theme.PrintBanner()
				fmt.Println("Config written to:", abs)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&path, "path", defaultConfigPath, "path to write config")
	return cmd
}
