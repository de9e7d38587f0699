// Package llm provides the local LLM collaborators: an Ollama client, the
// deck parameter extractor, and the explanation generator. Everything here
// performs I/O and lives outside the deck construction core.
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
)

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	// BaseURL is the Ollama API endpoint.
	BaseURL string

	// Model is the model name to use.
	Model string

	// RequestTimeout is the timeout for API requests.
	RequestTimeout time.Duration

	// InferenceTimeout is the timeout for generation requests.
	InferenceTimeout time.Duration

	// MaxRetries is the number of retries for failed requests.
	MaxRetries int
}

// DefaultOllamaConfig returns sensible defaults.
func DefaultOllamaConfig() *OllamaConfig {
	return &OllamaConfig{
		BaseURL:          "http://localhost:11434",
		Model:            "qwen3:8b",
		RequestTimeout:   30 * time.Second,
		InferenceTimeout: 120 * time.Second,
		MaxRetries:       2,
	}
}

// OllamaClient provides access to the Ollama API.
type OllamaClient struct {
	config     *OllamaConfig
	httpClient *http.Client
}

// GenerateRequest is the request body for generation.
type GenerateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	System  string           `json:"system,omitempty"`
	Stream  bool             `json:"stream"`
	Format  string           `json:"format,omitempty"`
	Options *GenerateOptions `json:"options,omitempty"`
}

// GenerateOptions are optional parameters for generation.
type GenerateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// GenerateResponse is the response from generation.
type GenerateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(config *OllamaConfig) *OllamaClient {
	if config == nil {
		config = DefaultOllamaConfig()
	}

	return &OllamaClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

// Generate generates text for a prompt with an optional system prompt.
func (c *OllamaClient) Generate(ctx context.Context, system, prompt string, options *GenerateOptions) (*GenerateResponse, error) {
	req := &GenerateRequest{
		Model:   c.config.Model,
		System:  system,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	}
	return c.doGenerate(ctx, req)
}

// GenerateJSON generates text constrained to JSON output.
func (c *OllamaClient) GenerateJSON(ctx context.Context, system, prompt string, options *GenerateOptions) (*GenerateResponse, error) {
	req := &GenerateRequest{
		Model:   c.config.Model,
		System:  system,
		Prompt:  prompt,
		Stream:  false,
		Format:  "json",
		Options: options,
	}
	return c.doGenerate(ctx, req)
}

// doGenerate sends a generation request with retries.
func (c *OllamaClient) doGenerate(ctx context.Context, genReq *GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		resp, err := c.postGenerate(ctx, body)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("generate failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *OllamaClient) postGenerate(ctx context.Context, body []byte) (*GenerateResponse, error) {
	inferCtx, cancel := context.WithTimeout(ctx, c.config.InferenceTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(inferCtx, http.MethodPost, c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Inference requests need a longer deadline than the client default.
	httpClient := &http.Client{Timeout: c.config.InferenceTimeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("generate returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}

	return &genResp, nil
}

// CheckAvailability reports whether the Ollama endpoint responds.
func (c *OllamaClient) CheckAvailability(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/version", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not available: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama version endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.config.Model
}

// ExtractJSON pulls the first JSON object out of a model response,
// tolerating markdown code fences around it.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```"); idx >= 0 {
		response = response[idx+3:]
		response = strings.TrimPrefix(response, "json")
		if end := strings.Index(response, "```"); end >= 0 {
			response = response[:end]
		}
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end < start {
		return ""
	}
	return response[start : end+1]
}
