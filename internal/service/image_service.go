package service

import (
	"context"

	"github.com/ridwanfathin/invoice-builder-service/internal/hfclient"
)

// ImageServicer defines the interface for the optional text-to-image
// integration. It is independent of the invoice pipeline; its failures
// never block invoice rendering or export.
type ImageServicer interface {
	// GenerateImage generates an image from a text prompt and returns
	// the image bytes with their content type
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// ImageGenerationService implements ImageServicer using the Hugging
// Face Inference API
type ImageGenerationService struct {
	client *hfclient.Client
}

// NewImageGenerationService creates the image generation service
func NewImageGenerationService(client *hfclient.Client) *ImageGenerationService {
	return &ImageGenerationService{client: client}
}

// GenerateImage generates an image from a text prompt
func (s *ImageGenerationService) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	return s.client.GenerateImage(ctx, prompt)
}
