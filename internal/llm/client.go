// Package llm is the boundary to the cloud generation service. The rest of
// fxforge only sees the Generator interface.
package llm

import "context"

// Generator produces text from the generation service. Errors are returned as
// *errors.ServiceError and are never retried here.
type Generator interface {
	// Generate returns JavaFX source for a natural-language request, with any
	// markdown fences stripped.
	Generate(ctx context.Context, prompt string) (string, error)

	// Chat returns a conversational reply. The reply may be a single-line JSON
	// tool invocation; see IsToolCall.
	Chat(ctx context.Context, message string) (string, error)
}

// DefaultModel is the model used when none is configured.
const DefaultModel = "qwen-plus"

// DefaultEndpoint is the OpenAI-compatible DashScope endpoint.
const DefaultEndpoint = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// Models lists the model names the service is known to accept.
func Models() []string {
	return []string{
		"qwen-turbo",
		"qwen-plus",
		"qwen-max",
		"qwen-long",
		"qwen-long-latest",
		"qwen3-32b",
	}
}
