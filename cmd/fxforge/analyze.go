package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/fxforge/internal/export"
)

func newAnalyzeCmd(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Print the package, class, imports and methods of a source file",
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
			e := export.FromAnalysis(args[0], a.analyzer().Analyze(text))

			switch format {
			case "json":
				data, err := e.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(data))
			case "mermaid":
				fmt.Fprint(a.out, export.GenerateMermaid(e))
			case "text":
				printAnalysis(a, e)
			default:
				return fmt.Errorf("unknown format %q (want text, json or mermaid)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or mermaid")
	return cmd
}

func printAnalysis(a *app, e *export.AnalysisExport) {
	fmt.Fprintf(a.out, "Package:     %s\n", orNone(e.Package))
	fmt.Fprintf(a.out, "Class:       %s\n", orNone(e.Class))
	fmt.Fprintf(a.out, "Application: %t\n", e.IsApplication)
	fmt.Fprintf(a.out, "Imports:     %d\n", len(e.Imports))
	for _, imp := range e.Imports {
		fmt.Fprintf(a.out, "  %s\n", imp)
	}
	fmt.Fprintf(a.out, "Methods:     %d\n", len(e.Methods))
	for _, m := range e.Methods {
		fmt.Fprintf(a.out, "  %s(%s)  [%d lines]\n", m.Name, strings.Join(strings.Fields(m.Params), " "), m.Lines)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
