package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postvault/internal/cmdlog"
	"postvault/internal/filter"
	"postvault/internal/util"
)

func newSearchCommand(log *zap.SugaredLogger) *cobra.Command {
	var cfgPath string
	var threshold int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search archived posts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run(log, "search", func() error {
				cfg, err := loadConfig(cfgPath)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("threshold") {
					threshold = cfg.Filter.Threshold
				}
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()

				posts, err := st.ListPosts(cmd.Context())
				if err != nil {
					return err
				}
				query := strings.Join(args, " ")
				matched := filter.Filter(query, posts, threshold)
				if len(matched) == 0 {
					fmt.Println("No matches.")
					return nil
				}
				for _, p := range matched {
					when := ""
					if p.PostedAtTimestamp > 0 {
						when = time.UnixMilli(p.PostedAtTimestamp).UTC().Format("2006-01-02")
					}
					fmt.Printf("%-10s  %-20s  %s\n", when, p.AuthorUsername, util.Preview(p.TextContent, 60))
				}
				fmt.Printf("\n%d of %d posts matched\n", len(matched), len(posts))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", defaultConfigPath, "config path")
	cmd.Flags().IntVar(&threshold, "threshold", filter.DefaultThreshold, "minimum match score (0-100)")
	return cmd
}
