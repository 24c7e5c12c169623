package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"roomnlu/internal/config"
	"roomnlu/internal/model"
	"roomnlu/internal/utils"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// OpenAIExtractor runs slot extraction against an OpenAI-compatible chat
// API, with rate limiting and bounded retries.
type OpenAIExtractor struct {
	config  *config.OpenAIConfig
	client  *openai.Client
	limiter *rate.Limiter
}

// NewOpenAIExtractor creates a new OpenAI-compatible extractor
func NewOpenAIExtractor(cfg *config.OpenAIConfig) *OpenAIExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = cfg.APIBase
	}

	return &OpenAIExtractor{
		config:  cfg,
		client:  openai.NewClientWithConfig(clientCfg),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

// IsEnabled returns whether the client is configured and ready
func (e *OpenAIExtractor) IsEnabled() bool {
	return e.config != nil && e.config.Enabled
}

// ExtractSlots asks the chat model for a slot mapping and parses its raw
// content through the two-layer output parser.
func (e *OpenAIExtractor) ExtractSlots(ctx context.Context, utterance, modelName string) (model.SlotMap, error) {
	if !e.IsEnabled() {
		return nil, &ExtractionError{Model: modelName, Err: fmt.Errorf("OpenAI API is not enabled (missing API key)")}
	}
	if modelName == "" || modelName == "room-nlu" {
		modelName = e.config.ChatModel
	}

	raw, err := e.complete(ctx, modelName, BuildExtractionPrompt(utterance))
	if err != nil {
		return nil, &ExtractionError{Model: modelName, Err: err}
	}

	parsed, err := utils.ParseModelOutput(raw)
	if err != nil {
		return nil, &ExtractionError{Model: modelName, Err: err}
	}

	return model.SlotMap(parsed), nil
}

// complete performs the chat completion with retry and backoff
func (e *OpenAIExtractor) complete(ctx context.Context, modelName, prompt string) (string, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	timeout := time.Duration(e.config.Timeout) * time.Second

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 1; attempt <= e.config.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err = e.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: modelName,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You extract booking fields from text as one JSON object, copying exact substrings.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: float32(e.config.Temperature),
		})
		cancel()

		if err == nil && len(resp.Choices) > 0 {
			break
		}

		log.Printf("OpenAI API attempt %d failed: %v", attempt, err)
		if attempt < e.config.MaxRetries {
			backoff := time.Duration(attempt)*time.Second + time.Duration(rand.Intn(2))*time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	if err != nil {
		return "", fmt.Errorf("OpenAI API error after %d attempts: %w", e.config.MaxRetries, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
