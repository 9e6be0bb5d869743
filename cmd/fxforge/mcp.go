package main

import (
	"github.com/spf13/cobra"

	"github.com/dusk-indust/fxforge/internal/mcptools"
)

func newServeMCPCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the fxforge tools over MCP (stdio, or HTTP with --http)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			r, compiler := a.runner(a.toolchain())
			fm, done := a.fileMerger()
			defer done()

			svc := mcptools.NewForgeService(a.analyzer(), fm, compiler, r)
			server := mcptools.NewForgeMCPServer(svc)
			if addr != "" {
				return mcptools.RunHTTP(cmd.Context(), server, addr)
			}
			return mcptools.RunStdio(cmd.Context(), server)
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "listen on this address with streamable HTTP instead of stdio")
	return cmd
}
