package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/fxforge/internal/runner"
)

func newCompileCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <file|->",
		Short: "Compile a source file against the JavaFX library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			_, compiler := a.runner(a.toolchain())
			outcome, err := compiler.Compile(cmd.Context(), text)
			if d := strings.TrimSpace(outcome.Diagnostics()); d != "" {
				fmt.Fprintln(a.errw, d)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "compiled %s\n", outcome.ClassName)
			return nil
		},
	}
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file|->",
		Short: "Compile and run a program in a separate process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			r, _ := a.runner(a.toolchain())
			res, err := r.Run(cmd.Context(), text)
			if res.Compilation != nil && !res.Compilation.Succeeded {
				if d := strings.TrimSpace(res.Compilation.Diagnostics()); d != "" {
					fmt.Fprintln(a.errw, d)
				}
			}
			if res.Execution != nil {
				fmt.Fprint(a.out, res.Execution.Output)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s in %s\n", res.State, res.Execution.Duration.Round(time.Millisecond))
			return nil
		},
	}
}

func newPreviewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file|->",
		Short: "Launch a JavaFX Application window until it is closed or interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r, _ := a.runner(a.toolchain())
			var (
				handle *runner.PreviewHandle
				failed error
			)
			r.Preview(ctx, text, runner.PreviewCallbacks{
				OnWindow: func(h *runner.PreviewHandle) { handle = h },
				OnError:  func(err error) { failed = err },
			})
			if failed != nil {
				return failed
			}
			if handle == nil {
				return errors.New("preview did not start")
			}
			fmt.Fprintf(a.out, "preview %s running (pid %d)\n", handle.ClassName, handle.PID)
			<-handle.Done()
			fmt.Fprint(a.out, handle.Output())
			if ctx.Err() != nil {
				return nil
			}
			return handle.Err()
		},
	}
}

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|->",
		Short: "Check that a source file looks like a runnable JavaFX application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			text, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			v := runner.Validate(text)
			for _, w := range v.Warnings {
				fmt.Fprintf(a.out, "warning: %s\n", w)
			}
			for _, e := range v.Errors {
				fmt.Fprintf(a.out, "error: %s\n", e)
			}
			if !v.OK() {
				return fmt.Errorf("validation failed with %d error(s)", len(v.Errors))
			}
			fmt.Fprintln(a.out, "ok")
			return nil
		},
	}
}
