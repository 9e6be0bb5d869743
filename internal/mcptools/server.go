package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewForgeMCPServer creates an MCP server with the fxforge tools registered.
func NewForgeMCPServer(svc *ForgeService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "fxforge",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_source",
		Description: "Extract the package, class name, imports and methods of a Java source text or file. Also returns a Mermaid class diagram.",
	}, svc.AnalyzeSource)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_code",
		Description: "Merge generated JavaFX code into an existing file, or into the best file found in a project directory. The original is backed up before it is overwritten; dryRun returns a diff instead.",
	}, svc.MergeCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_code",
		Description: "Compile a Java source text against the configured JavaFX library and return compiler diagnostics.",
	}, svc.CompileCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_code",
		Description: "Compile and run a JavaFX program in a separate process with a bounded wait, returning its exit code and combined output.",
	}, svc.RunCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_code",
		Description: "Check that a source text declares a JavaFX Application with a start method, without compiling it.",
	}, svc.ValidateCode)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the MCP server over streamable HTTP on addr until ctx is
// cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
