package wallpaper

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModels is the ordered list of Imagen models to try. The first
// model that produces an image wins.
var DefaultModels = []string{
	"imagen-4.0-ultra-generate-001",
	"imagen-3.0-generate-001",
}

// Generator produces a PNG wallpaper from a text prompt. Exactly one
// generation attempt per call; callers own any submit throttling.
type Generator interface {
	Generate(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
}

// ImagenGenerator renders wallpapers with Google's Imagen text-to-image
// models through the genai SDK.
type ImagenGenerator struct {
	client *genai.Client
	models []string
	log    zerolog.Logger
}

// NewImagenGenerator creates a generator authenticated with apiKey.
// models may be nil to use DefaultModels.
func NewImagenGenerator(ctx context.Context, apiKey string, models []string, log zerolog.Logger) (*ImagenGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("imagen: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("imagen: failed to create client: %w", err)
	}
	if len(models) == 0 {
		models = DefaultModels
	}
	return &ImagenGenerator{client: client, models: models, log: log}, nil
}

// Generate renders one image at the requested aspect ratio, falling
// back through the configured model list when a model errors out. A
// model that answers without image data ends the attempt; there is no
// point retrying the same prompt elsewhere.
func (g *ImagenGenerator) Generate(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatio,
	}

	var lastErr error
	for _, model := range g.models {
		g.log.Debug().Str("model", model).Int("prompt_chars", len(prompt)).
			Msg("requesting image generation")

		resp, err := g.client.Models.GenerateImages(ctx, model, prompt, cfg)
		if err != nil {
			g.log.Warn().Err(err).Str("model", model).Msg("image model failed")
			lastErr = err
			continue
		}
		if len(resp.GeneratedImages) > 0 && resp.GeneratedImages[0].Image != nil {
			data := resp.GeneratedImages[0].Image.ImageBytes
			g.log.Info().Str("model", model).Int("bytes", len(data)).Msg("image generated")
			return data, nil
		}
		return nil, fmt.Errorf("imagen: model %s returned no image, please try again", model)
	}
	return nil, fmt.Errorf("imagen: all models failed: %w", lastErr)
}
