// Package providers wraps the external generative capabilities used by the
// asset pipelines.
package providers

import "context"

// TextGenerator produces free text from a prompt.
type TextGenerator interface {
	// GenerateText sends a prompt and returns the generated text verbatim.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier (e.g., "openai").
	Name() string
}

// ImageGenerator produces image bytes from a prompt.
type ImageGenerator interface {
	// GenerateImage sends a prompt and returns the generated image bytes.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)

	// Name returns the provider identifier.
	Name() string
}
