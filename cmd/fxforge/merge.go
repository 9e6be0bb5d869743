package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/fxforge/internal/merge"
	"github.com/dusk-indust/fxforge/internal/orchestrator"
)

func newMergeCmd(flags *globalFlags) *cobra.Command {
	var (
		from     string
		strategy string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "merge <target-file|project-dir>",
		Short: "Merge generated code into a file or the best file of a project",
		Long: "Merge generated code into an existing source file. A directory target is\n" +
			"scanned for the JavaFX application class. The original file is copied to\n" +
			"backups/<name>.backup_<millis> before it is overwritten.\n\nStrategies:\n" +
			strategyHelp(),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			if strategy == "" {
				strategy = a.defaultStrategy()
			}
			s, err := merge.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			generated, err := readSource(cmd, from)
			if err != nil {
				return err
			}

			fm, done := a.fileMerger()
			target := args[0]
			if info, err := os.Stat(target); err == nil && info.IsDir() {
				if target, err = fm.FindTarget(cmd.Context(), target); err != nil {
					done()
					return err
				}
			}

			var res *orchestrator.MergeResult
			if dryRun {
				res = fm.Preview(cmd.Context(), target, generated, s)
			} else {
				res = fm.MergeToFile(cmd.Context(), target, generated, s)
			}
			done()

			if !res.Succeeded {
				return errors.New(res.Message)
			}
			if dryRun {
				fmt.Fprint(a.out, res.Diff)
				return nil
			}
			fmt.Fprintln(a.out, res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "-", "file holding the generated code (- for stdin)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "merge strategy (default: config strategy, else smart)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print a unified diff instead of writing")
	return cmd
}

func strategyHelp() string {
	var out string
	for _, s := range merge.Strategies() {
		out += fmt.Sprintf("  %-15s %s\n", s, s.Description())
	}
	return out
}
