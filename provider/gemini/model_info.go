package gemini

import "github.com/perchworks/pigeongen"

// FlashImageInfo describes Gemini 2.5 Flash Image, the only model this
// provider currently serves.
var FlashImageInfo = pigeongen.ModelInfo{
	Name:         "gemini-2.5-flash-image",
	Provider:     pigeongen.ProviderGeminiAPI,
	APIModelName: APIModelFlashImage,
	Capabilities: pigeongen.ModelCapabilities{
		MaxOutputImages: 4,
	},
	ImageConstraints: pigeongen.ImageConstraints{
		SupportedSizes: []pigeongen.ImageSize{
			pigeongen.ImageSizeSquare,
			pigeongen.ImageSizeWide,
			pigeongen.ImageSizeTall,
		},
	},
	RateLimits: pigeongen.RateLimits{
		TokensPerMinute:   100000,
		RequestsPerMinute: 10,
	},
	Pricing: pigeongen.Pricing{
		ImageGenerationCost: 0.039,
	},
}
