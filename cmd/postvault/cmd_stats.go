package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postvault/internal/cmdlog"
	"postvault/internal/store"
)

func newStatsCommand(log *zap.SugaredLogger) *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show archive statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run(log, "stats", func() error {
				cfg, err := loadConfig(cfgPath)
				if err != nil {
					return err
				}
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				ctx := cmd.Context()

				totals, err := st.GetTotals(ctx)
				if err != nil {
					return err
				}
				fmt.Println("\nDatabase Statistics:")
				fmt.Printf("  Total Posts:   %d\n", totals.Posts)
				fmt.Printf("  Marked Posts:  %d\n", totals.MarkedPosts)
				fmt.Printf("  Observations:  %d\n", totals.Observations)
				fmt.Printf("  Runs:          %d\n", totals.Runs)

				hist, err := st.FirstSeenHistogram(ctx)
				if err != nil {
					return err
				}
				if len(hist) > 0 {
					fmt.Println("\nIngestion History:")
					for _, day := range hist {
						fmt.Printf("  %s: %d posts\n", day.Day, day.Count)
					}
				}

				runs, err := st.RecentRuns(ctx, 5)
				if err != nil {
					return err
				}
				if len(runs) > 0 {
					fmt.Println("\nRecent Runs:")
					for _, r := range runs {
						mark := "✓"
						if r.Status != store.RunStatusCompleted {
							mark = "✗"
						}
						fmt.Printf("  %s %s | %s | %s | %d posts (%d new)\n",
							mark, r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Status, r.PostsFetched, r.PostsNew)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", defaultConfigPath, "config path")
	return cmd
}
