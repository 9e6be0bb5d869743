package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
	"github.com/dusk-indust/fxforge/internal/prompts"
)

// Compile-time interface check.
var _ Generator = (*HTTPClient)(nil)

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	http     *http.Client
	endpoint string
	model    string
	apiKey   string
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithEndpoint sets the base URL; "/chat/completions" is appended per call.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *HTTPClient) {
		if endpoint != "" {
			c.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithModel sets the model name.
func WithModel(model string) ClientOption {
	return func(c *HTTPClient) {
		if model != "" {
			c.model = model
		}
	}
}

// NewHTTPClient creates a client authenticating with apiKey.
func NewHTTPClient(apiKey string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		http: &http.Client{
			Timeout: 120 * time.Second,
		},
		endpoint: DefaultEndpoint,
		model:    DefaultModel,
		apiKey:   apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name.
func (c *HTTPClient) Model() string { return c.model }

// MaskedAPIKey returns the API key with its middle elided, for display.
func (c *HTTPClient) MaskedAPIKey() string {
	if len(c.apiKey) <= 10 {
		return strings.Repeat("*", len(c.apiKey))
	}
	return c.apiKey[:6] + "..." + c.apiKey[len(c.apiKey)-4:]
}

type sampling struct {
	temperature float64
	topP        float64
	maxTokens   int
}

var (
	generateSampling = sampling{temperature: 0.7, topP: 0.8, maxTokens: 4000}
	chatSampling     = sampling{temperature: 0.3, topP: 0.85, maxTokens: 512}
	pingSampling     = sampling{temperature: 0.7, topP: 0.8, maxTokens: 500}
)

// defaultImports is prepended to generated code that starts with neither a
// package nor an import statement.
const defaultImports = "import javafx.application.Application;\n" +
	"import javafx.scene.Scene;\n" +
	"import javafx.scene.layout.*;\n" +
	"import javafx.scene.control.*;\n" +
	"import javafx.stage.Stage;\n\n"

// Generate implements Generator.
func (c *HTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	log.Info().Int("prompt_len", len(prompt)).Str("model", c.model).Msg("llm: generating code")

	content, err := c.complete(ctx, "generate", prompts.CodegenSystem(), prompt, generateSampling)
	if err != nil {
		return "", err
	}
	code := StripCodeFences(content)
	if code == "" {
		return "", fxerrors.NewServiceError("generate", 0, "empty code in response", nil)
	}
	if !strings.Contains(code, "class") && !strings.Contains(code, "import") {
		log.Warn().Str("head", head(code, 100)).Msg("llm: response may not be Java code")
	}
	if !strings.HasPrefix(code, "package") && !strings.HasPrefix(code, "import") {
		code = defaultImports + code
	}

	log.Info().Int("code_len", len(code)).Msg("llm: code generated")
	return code, nil
}

// Chat implements Generator.
func (c *HTTPClient) Chat(ctx context.Context, message string) (string, error) {
	log.Info().Str("message", head(message, 80)).Msg("llm: chat")

	content, err := c.complete(ctx, "chat", prompts.ChatSystem(), message, chatSampling)
	if err != nil {
		return "", err
	}
	log.Debug().Str("raw", content).Msg("llm: chat response")
	return strings.TrimSpace(content), nil
}

// Ping sends a small generation request and reports whether the service
// answered with content.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.complete(ctx, "ping",
		"You are a JavaFX code generator. Return Java code only.",
		"Generate a minimal JavaFX HelloWorld program with the window title 'Test' showing 'Hello World!'.",
		pingSampling)
	return err
}

// Variant is one result of GenerateVariants. Exactly one of Code and Err is set.
type Variant struct {
	Index int // 1-based
	Code  string
	Err   error
}

// GenerateVariants requests count independent versions of the same prompt
// concurrently. A failed variant does not cancel the others.
func (c *HTTPClient) GenerateVariants(ctx context.Context, prompt string, count int) []Variant {
	variants := make([]Variant, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for i := 0; i < count; i++ {
		g.Go(func() error {
			p := fmt.Sprintf("%s\n\nThis is version %d.", prompt, i+1)
			code, err := c.Generate(gctx, p)
			variants[i] = Variant{Index: i + 1, Code: code, Err: err}
			if err != nil {
				log.Error().Err(err).Int("variant", i+1).Msg("llm: variant failed")
			}
			return nil
		})
	}
	_ = g.Wait()
	return variants
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// complete performs one chat completion and returns the first choice's content.
func (c *HTTPClient) complete(ctx context.Context, op, system, user string, s sampling) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", fxerrors.NewServiceError(op, 0, "API key is not configured", nil)
	}

	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: s.temperature,
		TopP:        s.topP,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fxerrors.NewServiceError(op, 0, "", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fxerrors.NewServiceError(op, resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fxerrors.NewServiceError(op, resp.StatusCode, string(respBody), nil)
	}

	var cr completionResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fxerrors.NewServiceError(op, 0, "", fmt.Errorf("decode response: %w", err))
	}
	if cr.Error != nil {
		return "", fxerrors.NewServiceError(op, 0, cr.Error.Code+": "+cr.Error.Message, nil)
	}
	if len(cr.Choices) == 0 {
		return "", fxerrors.NewServiceError(op, 0, "empty response", nil)
	}
	return cr.Choices[0].Message.Content, nil
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
