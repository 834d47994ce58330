package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// ImageRequest describes one image to generate.
type ImageRequest struct {
	// Prompt is the scene description.
	Prompt string

	// Style is a soft rendering hint appended to the prompt so images
	// for one story stay visually consistent.
	Style string
}

// ImageResponse holds the generated image reference.
type ImageResponse struct {
	// URL points at the hosted image.
	URL string

	// Model is the model that served the request.
	Model string
}

// ImageGenerator is the capability used by the illustration worker.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
}

// OpenAIImageGenerator implements ImageGenerator with the OpenAI images API.
type OpenAIImageGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIImageGenerator creates an image generator from OpenAI config.
func NewOpenAIImageGenerator(cfg OpenAIConfig) (*OpenAIImageGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.ImageModel
	if model == "" {
		model = "dall-e-3"
	}

	return &OpenAIImageGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (g *OpenAIImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	prompt := req.Prompt
	if req.Style != "" {
		prompt = fmt.Sprintf("%s. Style: %s", prompt, req.Style)
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:          g.model,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return nil, mapImageError(err)
	}

	if len(resp.Data) == 0 {
		return nil, &ErrInvalidResponse{
			Err: fmt.Errorf("no images in response"),
		}
	}

	return &ImageResponse{
		URL:   resp.Data[0].URL,
		Model: g.model,
	}, nil
}

func mapImageError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// MockImageGenerator is a deterministic ImageGenerator for testing. It
// records prompts and returns sequential fake URLs; Fail makes every
// call error instead.
type MockImageGenerator struct {
	mu      sync.Mutex
	Prompts []ImageRequest
	Fail    bool
}

func (m *MockImageGenerator) GenerateImage(_ context.Context, req ImageRequest) (*ImageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, req)
	if m.Fail {
		return nil, &ErrProviderUnavailable{}
	}
	return &ImageResponse{
		URL:   fmt.Sprintf("mock://image/%d", len(m.Prompts)),
		Model: "mock",
	}, nil
}
