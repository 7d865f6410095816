package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

var tracer = otel.Tracer("plato.llm")

// AzureConfig holds the connection settings for one Azure OpenAI
// deployment. Chat and course generation use separate deployments with
// different models and timeouts, so each gets its own config.
type AzureConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Timeout    time.Duration
}

// ChatConfigFromEnv reads the chat deployment settings.
//
// Required: CHAT_AZURE_OPENAI_ENDPOINT, CHAT_AZURE_OPENAI_API_KEY.
// Optional: CHAT_OPENAI_API_VERSION (default "2024-10-21"),
// CHAT_AZURE_OPENAI_DEPLOYMENT_NAME (default "gpt-4o-mini").
func ChatConfigFromEnv() (AzureConfig, error) {
	cfg := AzureConfig{
		Endpoint:   os.Getenv("CHAT_AZURE_OPENAI_ENDPOINT"),
		APIKey:     os.Getenv("CHAT_AZURE_OPENAI_API_KEY"),
		APIVersion: envOr("CHAT_OPENAI_API_VERSION", "2024-10-21"),
		Deployment: envOr("CHAT_AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o-mini"),
		Timeout:    60 * time.Second,
	}
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return AzureConfig{}, errors.New("llm: CHAT_AZURE_OPENAI_ENDPOINT and CHAT_AZURE_OPENAI_API_KEY must be set")
	}
	return cfg, nil
}

// CourseConfigFromEnv reads the course-generation deployment settings.
// Course generation produces a full syllabus in one call, so the
// timeout is much longer than chat.
//
// Required: AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY.
// Optional: OPENAI_API_VERSION (default "2024-05-01-preview"),
// AZURE_OPENAI_DEPLOYMENT_NAME (default "o3-mini").
func CourseConfigFromEnv() (AzureConfig, error) {
	cfg := AzureConfig{
		Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		APIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		APIVersion: envOr("OPENAI_API_VERSION", "2024-05-01-preview"),
		Deployment: envOr("AZURE_OPENAI_DEPLOYMENT_NAME", "o3-mini"),
		Timeout:    600 * time.Second,
	}
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return AzureConfig{}, errors.New("llm: AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY must be set")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// AzureOpenAIClient implements LLMClient against an Azure OpenAI
// deployment via the go-openai SDK.
type AzureOpenAIClient struct {
	client     *openai.Client
	deployment string
}

var _ LLMClient = (*AzureOpenAIClient)(nil)

// NewAzureOpenAIClient builds a client for one deployment.
func NewAzureOpenAIClient(cfg AzureConfig) *AzureOpenAIClient {
	oc := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIVersion != "" {
		oc.APIVersion = cfg.APIVersion
	}
	deployment := cfg.Deployment
	oc.AzureModelMapperFunc = func(model string) string {
		return deployment
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &AzureOpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		deployment: deployment,
	}
}

// Generate runs a single-prompt completion as a one-message chat.
func (c *AzureOpenAIClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	return c.Chat(ctx, []datatypes.Message{
		{Role: datatypes.RoleUser, Content: prompt},
	}, params)
}

// Chat runs a multi-message completion and returns the full text.
func (c *AzureOpenAIClient) Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error) {
	req := c.buildRequest(messages, params)

	ctx, span := tracer.Start(ctx, "llm.Chat",
		trace.WithAttributes(
			attribute.String("llm.deployment", c.deployment),
			attribute.Int("llm.message_count", len(messages)),
		))
	defer span.End()

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("llm: chat completion returned no choices")
		span.RecordError(err)
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatStream runs a streaming completion, delivering deltas to cb in
// arrival order. A final event with Done=true is always delivered on
// success; on transport error the Err event is delivered instead.
func (c *AzureOpenAIClient) ChatStream(ctx context.Context, messages []datatypes.Message, params GenerationParams, cb StreamCallback) error {
	req := c.buildRequest(messages, params)
	req.Stream = true

	ctx, span := tracer.Start(ctx, "llm.ChatStream",
		trace.WithAttributes(
			attribute.String("llm.deployment", c.deployment),
			attribute.Int("llm.message_count", len(messages)),
		))
	defer span.End()

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		wrapped := fmt.Errorf("llm: open stream: %w", err)
		span.RecordError(wrapped)
		_ = cb(StreamEvent{Err: wrapped})
		return wrapped
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return cb(StreamEvent{Done: true})
		}
		if err != nil {
			wrapped := fmt.Errorf("llm: stream recv: %w", err)
			span.RecordError(wrapped)
			_ = cb(StreamEvent{Err: wrapped})
			return wrapped
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := cb(StreamEvent{Delta: delta}); err != nil {
			return err
		}
	}
}

func (c *AzureOpenAIClient) buildRequest(messages []datatypes.Message, params GenerationParams) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:    c.deployment,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if params.MaxTokens != nil {
		req.MaxTokens = *params.MaxTokens
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}
	if params.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if params.ReasoningEffort != "" {
		req.ReasoningEffort = params.ReasoningEffort
	}
	return req
}
