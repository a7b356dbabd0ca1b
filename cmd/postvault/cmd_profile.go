package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postvault/internal/cmdlog"
	"postvault/internal/profiles"
)

func newProfileCommand(log *zap.SugaredLogger) *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage archived profiles",
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "config path")

	withManager := func(name string, f func(m *profiles.Manager, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run(log, "profile "+name, func() error {
				cfg, err := loadConfig(cfgPath)
				if err != nil {
					return err
				}
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				return f(profiles.NewManager(st, cfg.Platform), cmd, args)
			})
		}
	}

	var name, notes string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Register a profile",
		Args:  cobra.ExactArgs(1),
		RunE: withManager("add", func(m *profiles.Manager, cmd *cobra.Command, args []string) error {
			p, err := m.Add(cmd.Context(), args[0], name, notes)
			if err != nil {
				return err
			}
			fmt.Printf("Added profile %s (%s)\n", p.Username, p.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().StringVar(&notes, "notes", "", "free-form notes")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: withManager("list", func(m *profiles.Manager, cmd *cobra.Command, args []string) error {
			ps, err := m.List(cmd.Context(), !all)
			if err != nil {
				return err
			}
			for _, p := range ps {
				state := "active"
				if !p.Active {
					state = "inactive"
				}
				fmt.Printf("%-20s %-24s %-10s %s\n", p.Username, p.Name, p.Platform, state)
			}
			return nil
		}),
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive profiles")

	sync := &cobra.Command{
		Use:   "sync <csv-path>",
		Short: "Sync profiles from a CSV sheet",
		Args:  cobra.ExactArgs(1),
		RunE: withManager("sync", func(m *profiles.Manager, cmd *cobra.Command, args []string) error {
			stats, err := m.SyncFromCSV(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Added: %d  Updated: %d  Skipped: %d\n", stats.Added, stats.Updated, stats.Skipped)
			return nil
		}),
	}

	export := &cobra.Command{
		Use:   "export <csv-path>",
		Short: "Export profiles to a CSV sheet",
		Args:  cobra.ExactArgs(1),
		RunE: withManager("export", func(m *profiles.Manager, cmd *cobra.Command, args []string) error {
			if err := m.ExportToCSV(cmd.Context(), args[0], !all); err != nil {
				return err
			}
			fmt.Printf("Exported profiles to %s\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(add, list, sync, export)
	return cmd
}
