package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/fxforge/internal/orchestrator"
	"github.com/dusk-indust/fxforge/internal/tools"
)

// eventLoop is a Dispatcher for the CLI: callbacks posted by a Session run
// on the command goroutine when it waits.
type eventLoop chan func()

func (l eventLoop) Post(fn func()) { l <- fn }

// wait runs one posted callback.
func (l eventLoop) wait(ctx context.Context) error {
	select {
	case fn := <-l:
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	var (
		out      string
		variants int
	)
	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Generate JavaFX source from a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			gen, err := a.generator()
			if err != nil {
				return err
			}
			prompt := strings.Join(args, " ")

			if variants > 1 {
				for _, v := range gen.GenerateVariants(cmd.Context(), prompt, variants) {
					fmt.Fprintf(a.out, "// ---- version %d ----\n", v.Index)
					if v.Err != nil {
						fmt.Fprintf(a.out, "// failed: %v\n", v.Err)
						continue
					}
					fmt.Fprintln(a.out, v.Code)
				}
				return nil
			}

			loop := make(eventLoop, 1)
			fm, done := a.fileMerger()
			defer done()
			session := orchestrator.NewSession(cmd.Context(), loop, nil, fm, orchestrator.WithGenerator(gen))
			defer session.Close()

			var code string
			var failed error
			session.Generate(prompt,
				func(text string) { code = text },
				func(msg string) { failed = fmt.Errorf("%s", msg) })
			if err := loop.wait(cmd.Context()); err != nil {
				return err
			}
			if failed != nil {
				return failed
			}
			if out != "" {
				if err := os.WriteFile(out, []byte(code), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "wrote %s\n", out)
				return nil
			}
			fmt.Fprintln(a.out, code)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the generated code to this file")
	cmd.Flags().IntVar(&variants, "variants", 1, "request this many versions concurrently")
	return cmd
}

func newChatCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send one chat message; tool requests in the reply are answered locally",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			gen, err := a.generator()
			if err != nil {
				return err
			}

			loop := make(eventLoop, 1)
			fm, done := a.fileMerger()
			defer done()
			session := orchestrator.NewSession(cmd.Context(), loop, nil, fm,
				orchestrator.WithGenerator(gen), orchestrator.WithTools(tools.NewRegistry()))
			defer session.Close()

			var failed error
			session.Chat(strings.Join(args, " "),
				func(reply string) { fmt.Fprintln(a.out, reply) },
				func(msg string) { failed = fmt.Errorf("%s", msg) })
			if err := loop.wait(cmd.Context()); err != nil {
				return err
			}
			return failed
		},
	}
}
