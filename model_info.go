package pigeongen

// ModelCapabilities describes what features a model supports.
type ModelCapabilities struct {
	// Tiers
	SupportsQuality bool // standard/hd quality parameter
	SupportsStyle   bool // natural/vivid style parameter

	// Features
	SupportsRevisedPrompt bool // model may rewrite the prompt and report it

	// Limits
	MaxOutputImages int // Max images generated per request
}

// RateLimits defines rate limiting parameters for a model.
type RateLimits struct {
	TokensPerMinute   int
	RequestsPerMinute int
	TokensPerDay      int // 0 = unlimited
}

// Pricing defines cost information for a model.
type Pricing struct {
	ImageGenerationCost float64 // Per image, USD
}

// ImageConstraints defines supported image configurations for a model.
type ImageConstraints struct {
	SupportedSizes []ImageSize
}

// ModelInfo contains complete metadata for a model.
type ModelInfo struct {
	// Identity
	Name         string   // Public model name (e.g., "dall-e-3")
	Provider     Provider // Which provider serves this model
	APIModelName string   // Actual API name

	// Capabilities
	Capabilities ModelCapabilities

	// Constraints
	ImageConstraints ImageConstraints

	// Rate Limits
	RateLimits RateLimits

	// Pricing
	Pricing Pricing
}

// SupportsSize reports whether the model accepts the given output size.
// An empty constraint list means any size is accepted.
func (m *ModelInfo) SupportsSize(size ImageSize) bool {
	if len(m.ImageConstraints.SupportedSizes) == 0 {
		return true
	}
	for _, s := range m.ImageConstraints.SupportedSizes {
		if s == size {
			return true
		}
	}
	return false
}
