// Package openai provides an ImageGenerator implementation backed by the
// OpenAI Images API (https://platform.openai.com/docs/api-reference/images).
//
// Requests always ask for base64-encoded payloads (response_format
// b64_json) so the caller never has to fetch a second URL.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/perchworks/pigeongen"
)

const (
	// DefaultBaseURL is the public OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// APIModelDallE3 is the actual API name for DALL-E 3.
	APIModelDallE3 = "dall-e-3"

	// APIModelDallE2 is the actual API name for DALL-E 2.
	APIModelDallE2 = "dall-e-2"
)

const defaultTimeout = 2 * time.Minute

// Generator implements pigeongen.ImageGenerator against the OpenAI REST API.
type Generator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Ensure Generator implements the interface.
var _ pigeongen.ImageGenerator = (*Generator)(nil)

// New creates a Generator from a ProviderConfig. An empty APIKey falls back
// to the OPENAI_API_KEY environment variable.
func New(config *pigeongen.ProviderConfig) (*Generator, error) {
	if config == nil {
		config = &pigeongen.ProviderConfig{}
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("openai: API key is required (set OPENAI_API_KEY)")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Generator{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// NewWithAPIKey creates a generator with an explicit API key.
func NewWithAPIKey(apiKey string) (*Generator, error) {
	return New(&pigeongen.ProviderConfig{
		Provider: pigeongen.ProviderOpenAI,
		APIKey:   apiKey,
	})
}

type imageGenerationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ResponseFormat string `json:"response_format"`
}

type imageGenerationResponse struct {
	Created int64       `json:"created"`
	Data    []imageData `json:"data"`
}

type imageData struct {
	B64JSON       string `json:"b64_json"`
	URL           string `json:"url,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

type apiErrorEnvelope struct {
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Generate creates images from a text prompt.
func (g *Generator) Generate(ctx context.Context, prompt string, config *pigeongen.GenerateConfig) (*pigeongen.GenerateResult, error) {
	if err := pigeongen.ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	if config == nil {
		config = pigeongen.DefaultConfig()
	}

	model := g.resolveModel(config)

	n := config.NumberOfImages
	if n < 1 {
		n = 1
	}

	request := imageGenerationRequest{
		Model:          model,
		Prompt:         prompt,
		N:              n,
		Size:           config.Size.String(),
		Quality:        config.Quality.String(),
		Style:          config.Style.String(),
		ResponseFormat: "b64_json",
	}

	// DALL-E 2 rejects the quality and style tiers
	if model == APIModelDallE2 {
		request.Quality = ""
		request.Style = ""
	}

	response, err := g.postImageGeneration(ctx, model, &request)
	if err != nil {
		return nil, err
	}

	if len(response.Data) == 0 {
		return nil, &pigeongen.GenerationError{
			Model: model,
			Err:   errors.New("response did not include any images"),
		}
	}

	images := make([]pigeongen.GeneratedImage, 0, len(response.Data))
	for i, datum := range response.Data {
		payload := strings.TrimSpace(datum.B64JSON)
		if payload == "" {
			return nil, &pigeongen.GenerationError{
				Model: model,
				Err:   fmt.Errorf("image %d is missing its base64 payload", i),
			}
		}

		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, &pigeongen.GenerationError{
				Model: model,
				Err:   fmt.Errorf("decode base64 payload of image %d: %w", i, err),
			}
		}

		images = append(images, pigeongen.GeneratedImage{
			Data:          data,
			MIMEType:      "image/png",
			Index:         i,
			RevisedPrompt: strings.TrimSpace(datum.RevisedPrompt),
		})
	}

	return &pigeongen.GenerateResult{
		Images: images,
		UsageMetadata: &pigeongen.UsageMetadata{
			ImageCount: len(images),
		},
	}, nil
}

// Models returns the model definitions supported by this provider.
// The first model (DALL-E 3) is the default.
func (g *Generator) Models() []pigeongen.ModelInfo {
	return []pigeongen.ModelInfo{
		DallE3Info,
		DallE2Info,
	}
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	g.httpClient.CloseIdleConnections()
	return nil
}

// resolveModel determines which API model name to use.
// Falls back to the first model (default) if none specified.
func (g *Generator) resolveModel(config *pigeongen.GenerateConfig) string {
	if config != nil && config.Model != "" {
		return string(config.Model)
	}
	return APIModelDallE3
}

func (g *Generator) postImageGeneration(ctx context.Context, model string, request *imageGenerationRequest) (*imageGenerationResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, &pigeongen.GenerationError{
			Model: model,
			Err:   fmt.Errorf("marshal request: %w", err),
		}
	}

	url := g.baseURL + "/images/generations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &pigeongen.GenerationError{
			Model: model,
			Err:   fmt.Errorf("build request: %w", err),
		}
	}

	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, &pigeongen.GenerationError{
			Model: model,
			Err:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, &pigeongen.RateLimitError{
			RetryAfter: retryAfter(httpResp),
			LimitType:  "requests",
			Model:      model,
			Err:        decodeAPIError(httpResp),
		}
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, &pigeongen.GenerationError{
			Model: model,
			Err:   decodeAPIError(httpResp),
		}
	}

	var response imageGenerationResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&response); err != nil {
		return nil, &pigeongen.GenerationError{
			Model: model,
			Err:   fmt.Errorf("decode response: %w", err),
		}
	}

	return &response, nil
}

// decodeAPIError extracts the structured error from a failed response body.
func decodeAPIError(resp *http.Response) error {
	var envelope apiErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error == nil {
		return fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("api error (%s): %s", envelope.Error.Type, envelope.Error.Message)
}

// retryAfter reads the Retry-After header, defaulting to one minute.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Minute
}
