package llm

import (
	"context"
	"encoding/json"
)

// Provider is the single seam between the content services and a model
// vendor. Story and exercise generation go through Generate; everything
// above this interface is vendor-agnostic.
type Provider interface {
	// Generate sends one prompt and returns the model's reply. When the
	// request carries a Schema the provider asks the vendor for
	// structured output and validates the reply against it before
	// returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request is one generation call.
type Request struct {
	// System sets the model's role, e.g. the Arabic teacher persona
	// used for story generation.
	System string

	// Messages is the conversation. Story and exercise generation send
	// a single user message.
	Messages []Message

	// Schema, when set, is the JSON shape the reply must conform to.
	// When nil the reply is returned as raw text.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature in [0,1]; zero means deterministic.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure requested from the model.
type Schema struct {
	// Name identifies the schema to the vendor (tool name for
	// Anthropic, schema name for OpenAI). Kebab-case, e.g.
	// "arabic-story".
	Name string

	// Description tells the model what the shape represents.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response is the model's reply.
type Response struct {
	// Content is the validated JSON object when the request carried a
	// Schema, or the raw text otherwise.
	Content json.RawMessage

	// Usage is the token count for this call, fed to the audit log.
	Usage Usage

	// Model is the model that actually served the call.
	Model string

	// StopReason is normalized across vendors: "end", "max_tokens" or
	// "error".
	StopReason string
}

// Usage is the token consumption of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
