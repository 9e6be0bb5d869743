package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/fxforge/internal/runner"
)

func newDoctorCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the Java toolchain and JavaFX library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			env := runner.NewDefaultDetector(a.toolchain()).Detect(cmd.Context())

			if asJSON {
				data, err := json.MarshalIndent(env, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(data))
			} else {
				printEnvironment(a, env)
			}
			if !env.Ready() {
				return errors.New("toolchain is not ready")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the environment as JSON")
	return cmd
}

func printEnvironment(a *app, env runner.Environment) {
	fmt.Fprintf(a.out, "javac:   %s %s\n", env.CompilerPath, orNone(env.CompilerVersion))
	fmt.Fprintf(a.out, "java:    %s %s\n", env.RuntimePath, orNone(env.RuntimeVersion))
	fmt.Fprintf(a.out, "javap:   %t\n", env.HasInspector)
	fmt.Fprintf(a.out, "JavaFX:  %s (%d jars)\n", orNone(env.LibraryPath), len(env.LibraryJars))
	for _, p := range env.Problems {
		fmt.Fprintf(a.out, "  problem: %s\n", p)
	}
	if env.Ready() {
		fmt.Fprintln(a.out, "ready")
	}
}
