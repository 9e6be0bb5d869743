package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/fxforge/internal/status"
)

func newBackupsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "backups <target-file>",
		Short: "List the backups of a merge target, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			backups, err := status.ListBackups(args[0])
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Fprintln(a.out, "No backups found.")
				return nil
			}
			for _, b := range backups {
				fmt.Fprintf(a.out, "%s  %8d  %s\n", b.Taken.Format(time.DateTime), b.Size, b.Path)
			}
			return nil
		},
	}
}

func newRestoreCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <target-file> [backup]",
		Short: "Restore a target from a backup (the newest when none is given)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			target := args[0]
			var backup string
			if len(args) == 2 {
				backup = args[1]
			} else {
				backups, err := status.ListBackups(target)
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					return errors.New("no backups to restore")
				}
				backup = backups[0].Path
			}
			saved, err := status.Restore(target, backup, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "restored %s from %s (previous content saved to %s)\n", target, backup, saved)
			return nil
		},
	}
}
