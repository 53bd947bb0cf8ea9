package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName              = "openai"
	openAIDefaultTextModel  = openai.ChatModelGPT4oMini
	openAIDefaultImageModel = openai.ImageModelDallE3

	// Portrait cover format; closest DALL-E 3 size to the 1242x1656
	// Redbook title-page dimensions.
	openAIImageSize = openai.ImageGenerateParamsSize1024x1792
)

// OpenAIConfig holds configuration for the OpenAI generation client.
type OpenAIConfig struct {
	APIKey     string
	TextModel  string        // "gpt-4o-mini" (default)
	ImageModel string        // "dall-e-3" (default)
	MaxRetries int           // Retry attempts for SDK transport
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements TextGenerator and ImageGenerator using the
// official OpenAI SDK.
type OpenAIClient struct {
	textModel  string
	imageModel string
	client     openai.Client
}

// NewOpenAIClient creates a new OpenAI generation client. The API key is
// required; every other field has a default.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if cfg.TextModel == "" {
		cfg.TextModel = openAIDefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = openAIDefaultImageModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		client:     openai.NewClient(opts...),
	}, nil
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string { return OpenAIName }

// HealthCheck verifies the API is reachable and the key is valid.
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai models list failed: %w", mapOpenAIError(err))
	}
	return nil
}

// GenerateText sends a chat completion request and returns the response text.
func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt is required")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.textModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests one portrait image and returns its decoded bytes.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(c.imageModel),
		N:              openai.Int(1),
		Size:           openAIImageSize,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai returned no image data")
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return img, nil
}

// TextModel returns the configured chat model.
func (c *OpenAIClient) TextModel() string { return c.textModel }

// ImageModel returns the configured image model.
func (c *OpenAIClient) ImageModel() string { return c.imageModel }

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("OpenAI error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("OpenAI error (status %d)", apiErr.StatusCode)
	}
	return err
}

var _ TextGenerator = (*OpenAIClient)(nil)
var _ ImageGenerator = (*OpenAIClient)(nil)
