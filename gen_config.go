package pigeongen

import (
	"time"
)

// Model represents a specific image generation model.
type Model string

// ImageSize represents the output pixel dimensions for generated images.
type ImageSize string

const (
	ImageSizeSquare    ImageSize = "1024x1024"
	ImageSizeWide      ImageSize = "1792x1024"
	ImageSizeTall      ImageSize = "1024x1792"
	ImageSizeSmall     ImageSize = "512x512"
	ImageSizeThumbnail ImageSize = "256x256"
)

// Quality represents the rendering quality tier.
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHD       Quality = "hd"
)

// Style represents the rendering style tier.
type Style string

const (
	StyleNatural Style = "natural"
	StyleVivid   Style = "vivid"
)

// GenerateConfig holds configuration options for image generation.
type GenerateConfig struct {
	// Model to use for generation (if empty, uses manager's default)
	Model Model

	// Size of the output image in pixels
	Size ImageSize

	// Quality tier (standard or hd)
	Quality Quality

	// Style tier (natural or vivid)
	Style Style

	// NumberOfImages to generate. The pipeline always requests 1.
	NumberOfImages int

	// Metadata to attach to requests (for logging/tracking)
	Metadata map[string]string

	// WaitOnRateLimit, if true, causes the Manager to wait and retry when
	// rate limited. If false, a RateLimitError is returned immediately.
	WaitOnRateLimit bool

	// MaxWaitDuration is the maximum time to wait when WaitOnRateLimit is
	// true. Zero means no limit.
	MaxWaitDuration time.Duration
}

// WithModel returns a copy of the config with the specified model.
func (c *GenerateConfig) WithModel(model Model) *GenerateConfig {
	if c == nil {
		return &GenerateConfig{Model: model}
	}
	cX := *c
	cX.Model = model
	return &cX
}

// DefaultConfig returns a GenerateConfig matching the canonical pigeon
// portrait request: one square hd image in the natural style.
func DefaultConfig() *GenerateConfig {
	return &GenerateConfig{
		Model:          ModelDefault,
		Size:           ImageSizeSquare,
		Quality:        QualityHD,
		Style:          StyleNatural,
		NumberOfImages: 1,
	}
}

// DefaultConfigWithModel returns a default config with the specified model.
func DefaultConfigWithModel(model Model) *GenerateConfig {
	config := DefaultConfig()
	config.Model = model
	return config
}

// String returns the string representation for API calls.
func (s ImageSize) String() string {
	return string(s)
}

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}

// String returns the quality identifier.
func (q Quality) String() string {
	return string(q)
}

// String returns the style identifier.
func (s Style) String() string {
	return string(s)
}
