package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postvault/internal/cmdlog"
	"postvault/internal/tags"
)

func newTagCommand(log *zap.SugaredLogger) *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath, "config path")

	withManager := func(name string, f func(m *tags.Manager, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run(log, "tag "+name, func() error {
				cfg, err := loadConfig(cfgPath)
				if err != nil {
					return err
				}
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				m := tags.NewManager(st)
				if err := m.EnsureDefaults(cmd.Context()); err != nil {
					return err
				}
				return f(m, cmd, args)
			})
		}
	}

	var color, description string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: withManager("add", func(m *tags.Manager, cmd *cobra.Command, args []string) error {
			t, err := m.Add(cmd.Context(), args[0], color, description)
			if err != nil {
				return err
			}
			fmt.Printf("Created tag %s (%s)\n", t.Name, t.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&color, "color", "cyan", "display color")
	add.Flags().StringVar(&description, "description", "", "tag description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: withManager("list", func(m *tags.Manager, cmd *cobra.Command, args []string) error {
			all, err := m.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range all {
				fmt.Printf("%-14s %-8s %s\n", t.Name, t.Color, t.Description)
			}
			return nil
		}),
	}

	rm := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a tag and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: withManager("rm", func(m *tags.Manager, cmd *cobra.Command, args []string) error {
			t, err := m.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := m.Delete(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted tag %s\n", t.Name)
			return nil
		}),
	}

	rename := &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: withManager("rename", func(m *tags.Manager, cmd *cobra.Command, args []string) error {
			t, err := m.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := m.Rename(cmd.Context(), t.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed %s to %s\n", args[0], args[1])
			return nil
		}),
	}

	cmd.AddCommand(add, list, rm, rename)
	return cmd
}
