package llm

import (
	"context"

	"github.com/platolabs/plato/services/tutor/datatypes"
)

// GenerationParams tunes a single LLM request. Nil pointer fields mean
// "use the backend default".
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`

	// JSONMode asks the backend to constrain output to a single JSON
	// object. Used by course generation, ignored by chat.
	JSONMode bool `json:"json_mode"`

	// ReasoningEffort is passed through to reasoning-capable models
	// ("low", "medium", "high"). Empty means backend default.
	ReasoningEffort string `json:"reasoning_effort"`
}

// StreamEvent is one increment of a streaming chat completion.
// Exactly one of Delta/Err is meaningful; Done marks end of stream.
type StreamEvent struct {
	Delta string
	Done  bool
	Err   error
}

// StreamCallback receives stream events in order. Returning a non-nil
// error aborts the stream; the client stops reading and cleans up.
type StreamCallback func(ev StreamEvent) error

// LLMClient defines the standard interface for any LLM backend.
type LLMClient interface {
	// Generate runs a single-prompt completion and returns the full text.
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)

	// Chat runs a multi-message completion and returns the full text.
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)

	// ChatStream runs a multi-message completion, invoking cb for each
	// delta as it arrives. Returns after the final event is delivered.
	ChatStream(ctx context.Context, messages []datatypes.Message, params GenerationParams, cb StreamCallback) error
}

// Float32Ptr returns a pointer to v. Convenience for GenerationParams.
func Float32Ptr(v float32) *float32 { return &v }

// IntPtr returns a pointer to v. Convenience for GenerationParams.
func IntPtr(v int) *int { return &v }
