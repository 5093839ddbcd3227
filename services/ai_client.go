package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Defaults target Gemini through its OpenAI-compatible endpoint.
const (
	DefaultAIBaseURL      = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultChatModel      = "gemini-2.5-flash"
	DefaultEmbeddingModel = "text-embedding-004"
	DefaultAITimeout      = 120 * time.Second
)

// AIConfig configures the hosted model clients.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// aiTransport is the authenticated JSON transport shared by the chat and
// embedding clients.
type aiTransport struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func newAITransport(cfg AIConfig) (*aiTransport, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultAITimeout
	}
	return &aiTransport{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// postJSON sends body to path and decodes a 200 response into out. The
// decoded value's error field, if any, is reported by errOf.
func (t *aiTransport) postJSON(ctx context.Context, path string, body, out any, errOf func() *apiError) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ai error (status %d): %s", resp.StatusCode, truncate(string(payload), 500))
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if apiErr := errOf(); apiErr != nil {
		return fmt.Errorf("ai error: %s", apiErr.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ai error (status %d): %s", resp.StatusCode, truncate(string(payload), 500))
	}
	return nil
}

// ChatClient generates single-shot completions through /chat/completions.
type ChatClient struct {
	transport *aiTransport
	model     string
}

var _ LLM = (*ChatClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

func NewChatClient(cfg AIConfig) (*ChatClient, error) {
	t, err := newAITransport(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	return &ChatClient{transport: t, model: cfg.Model}, nil
}

// Generate sends prompt as the only user message. A response without choices
// yields an empty string, not an error.
func (c *ChatClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	var resp chatResponse
	if err := c.transport.postJSON(ctx, "/chat/completions", reqBody, &resp, func() *apiError { return resp.Error }); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *ChatClient) ModelName() string { return c.model }

// EmbeddingClient produces embeddings through /embeddings.
type EmbeddingClient struct {
	transport *aiTransport
	model     string
}

var _ Embedder = (*EmbeddingClient)(nil)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

func NewEmbeddingClient(cfg AIConfig) (*EmbeddingClient, error) {
	t, err := newAITransport(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultEmbeddingModel
	}
	return &EmbeddingClient{transport: t, model: cfg.Model}, nil
}

// EmbedBatch embeds texts in one request; result i belongs to texts[i].
func (c *EmbeddingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embeddingResponse
	reqBody := embeddingRequest{Model: c.model, Input: texts}
	if err := c.transport.postJSON(ctx, "/embeddings", reqBody, &resp, func() *apiError { return resp.Error }); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("ai: embedding index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	for i, v := range out {
		if len(v) == 0 {
			return nil, fmt.Errorf("ai: no embedding returned for input %d", i)
		}
	}
	return out, nil
}

func (c *EmbeddingClient) ModelName() string { return c.model }
