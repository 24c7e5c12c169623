package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"roomnlu/internal/config"
	"roomnlu/internal/model"
	"roomnlu/internal/utils"
)

// OllamaClient talks to a local Ollama server and parses the completion into
// a slot mapping.
type OllamaClient struct {
	config     *config.OllamaConfig
	httpClient *http.Client
}

// NewOllamaClient creates a new Ollama extractor client
func NewOllamaClient(cfg *config.OllamaConfig) *OllamaClient {
	return &OllamaClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OllamaClient) IsEnabled() bool {
	return c.config != nil && c.config.Host != ""
}

// generateRequest is the body for POST /api/generate
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the non-streaming response from /api/generate
type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// ExtractSlots renders the extraction prompt, runs the model, and parses the
// raw completion through the two-layer output parser.
func (c *OllamaClient) ExtractSlots(ctx context.Context, utterance, modelName string) (model.SlotMap, error) {
	if modelName == "" {
		modelName = c.config.Model
	}

	raw, err := c.generate(ctx, modelName, BuildExtractionPrompt(utterance))
	if err != nil {
		return nil, &ExtractionError{Model: modelName, Err: err}
	}

	parsed, err := utils.ParseModelOutput(raw)
	if err != nil {
		return nil, &ExtractionError{Model: modelName, Err: err}
	}

	return model.SlotMap(parsed), nil
}

// generate performs a non-streaming completion request
func (c *OllamaClient) generate(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Model:  modelName,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", c.config.Host)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return result.Response, nil
}
