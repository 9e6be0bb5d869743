package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set by goreleaser at build time.
var version = "dev"

// globalFlags are shared by every command.
type globalFlags struct {
	ProjectRoot string
	LibraryPath string
	Analyzer    string
	LogLevel    string
	Verbose     bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "fxforge",
		Short: "Generate, run and merge JavaFX code",
		Long: `fxforge compiles and runs freshly generated JavaFX source in a separate
process, and merges generated fragments into existing source files with a
timestamped backup of every file it overwrites.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.ProjectRoot, "project-root", ".", "directory holding fxforge.yml and .env")
	pf.StringVar(&flags.LibraryPath, "library-path", "", "JavaFX lib directory (overrides config)")
	pf.StringVar(&flags.Analyzer, "analyzer", "", "source analyzer: regex or treesitter")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "print progress for each phase")

	root.AddCommand(
		newAnalyzeCmd(flags),
		newMergeCmd(flags),
		newCompileCmd(flags),
		newRunCmd(flags),
		newPreviewCmd(flags),
		newValidateCmd(flags),
		newDoctorCmd(flags),
		newBackupsCmd(flags),
		newRestoreCmd(flags),
		newGenerateCmd(flags),
		newChatCmd(flags),
		newServeMCPCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}
