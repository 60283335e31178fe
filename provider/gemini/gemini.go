// Package gemini provides an ImageGenerator implementation using Google's
// Gemini API via the official Go SDK:
// https://github.com/googleapis/go-genai
//
// Gemini image models have no quality or style tiers; those config fields
// are ignored and the requested pixel size is mapped to an aspect ratio.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/perchworks/pigeongen"
	"google.golang.org/genai"
)

// APIModelFlashImage is the actual API name for Gemini 2.5 Flash Image.
const APIModelFlashImage = "gemini-2.5-flash-image"

// Generator implements pigeongen.ImageGenerator using the Gemini API.
type Generator struct {
	client *genai.Client
}

// Ensure Generator implements the interface.
var _ pigeongen.ImageGenerator = (*Generator)(nil)

// New creates a new Generator from a ProviderConfig.
func New(ctx context.Context, config *pigeongen.ProviderConfig) (*Generator, error) {
	if config == nil {
		config = &pigeongen.ProviderConfig{}
	}

	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	if config.APIKey != "" {
		clientCfg.APIKey = config.APIKey
	}
	// If APIKey is empty, the SDK will try GOOGLE_API_KEY or GEMINI_API_KEY env vars

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Generator{client: client}, nil
}

// NewWithAPIKey creates a generator with an API key for the Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*Generator, error) {
	return New(ctx, &pigeongen.ProviderConfig{
		Provider: pigeongen.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

// Generate creates images from a text prompt.
func (g *Generator) Generate(ctx context.Context, prompt string, config *pigeongen.GenerateConfig) (*pigeongen.GenerateResult, error) {
	if err := pigeongen.ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	if config == nil {
		config = pigeongen.DefaultConfig()
	}

	modelName := g.resolveModel(config)

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	if ratio := aspectRatioForSize(config.Size); ratio != "" {
		genConfig.ImageConfig = &genai.ImageConfig{AspectRatio: ratio}
	}

	result, err := g.client.Models.GenerateContent(ctx, modelName, contents, genConfig)
	if err != nil {
		if rlErr := checkRateLimitError(err, modelName); rlErr != nil {
			return nil, rlErr
		}
		return nil, &pigeongen.GenerationError{Model: modelName, Err: err}
	}

	return parseResult(modelName, result)
}

// Models returns the model definitions supported by this provider.
func (g *Generator) Models() []pigeongen.ModelInfo {
	return []pigeongen.ModelInfo{
		FlashImageInfo,
	}
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// resolveModel determines which API model name to use.
func (g *Generator) resolveModel(config *pigeongen.GenerateConfig) string {
	if config != nil && config.Model != "" {
		return string(config.Model)
	}
	return APIModelFlashImage
}

// aspectRatioForSize maps the pipeline's pixel sizes onto Gemini aspect
// ratios. Unknown sizes let the model pick.
func aspectRatioForSize(size pigeongen.ImageSize) string {
	switch size {
	case pigeongen.ImageSizeSquare, pigeongen.ImageSizeSmall, pigeongen.ImageSizeThumbnail:
		return "1:1"
	case pigeongen.ImageSizeWide:
		return "16:9"
	case pigeongen.ImageSizeTall:
		return "9:16"
	default:
		return ""
	}
}

// parseResult converts a Gemini response to our result type.
func parseResult(modelName string, result *genai.GenerateContentResponse) (*pigeongen.GenerateResult, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, &pigeongen.GenerationError{
			Model: modelName,
			Err:   errors.New("empty response from model"),
		}
	}

	genResult := &pigeongen.GenerateResult{
		Images: make([]pigeongen.GeneratedImage, 0),
	}

	imageIndex := 0
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != nil {
				genResult.Images = append(genResult.Images, pigeongen.GeneratedImage{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
					Index:    imageIndex,
				})
				imageIndex++
			}
		}
	}

	if result.UsageMetadata != nil {
		genResult.UsageMetadata = &pigeongen.UsageMetadata{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
			ImageCount:       len(genResult.Images),
		}
	}

	return genResult, nil
}

// checkRateLimitError checks if an error from the Gemini API is a rate
// limit error. If so, it wraps it in a RateLimitError for standardized
// handling; otherwise returns nil.
func checkRateLimitError(err error, model string) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	if apiErr.Code != 429 && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return nil
	}

	return &pigeongen.RateLimitError{
		RetryAfter: 60 * time.Second, // Default; API doesn't reliably provide Retry-After
		LimitType:  "requests",
		Model:      model,
		Err:        err,
	}
}
