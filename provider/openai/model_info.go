package openai

import "github.com/perchworks/pigeongen"

// DallE3Info describes DALL-E 3, the default model for this provider.
// Quality and style tiers map directly onto the API's parameters; the API
// rejects n > 1 for this model.
var DallE3Info = pigeongen.ModelInfo{
	Name:         "dall-e-3",
	Provider:     pigeongen.ProviderOpenAI,
	APIModelName: APIModelDallE3,
	Capabilities: pigeongen.ModelCapabilities{
		SupportsQuality:       true,
		SupportsStyle:         true,
		SupportsRevisedPrompt: true,
		MaxOutputImages:       1,
	},
	ImageConstraints: pigeongen.ImageConstraints{
		SupportedSizes: []pigeongen.ImageSize{
			pigeongen.ImageSizeSquare,
			pigeongen.ImageSizeWide,
			pigeongen.ImageSizeTall,
		},
	},
	RateLimits: pigeongen.RateLimits{
		TokensPerMinute:   20000,
		RequestsPerMinute: 5,
	},
	Pricing: pigeongen.Pricing{
		ImageGenerationCost: 0.080, // hd 1024x1024
	},
}

// DallE2Info describes DALL-E 2. No quality or style tiers; smaller sizes.
var DallE2Info = pigeongen.ModelInfo{
	Name:         "dall-e-2",
	Provider:     pigeongen.ProviderOpenAI,
	APIModelName: APIModelDallE2,
	Capabilities: pigeongen.ModelCapabilities{
		MaxOutputImages: 10,
	},
	ImageConstraints: pigeongen.ImageConstraints{
		SupportedSizes: []pigeongen.ImageSize{
			pigeongen.ImageSizeSquare,
			pigeongen.ImageSizeSmall,
			pigeongen.ImageSizeThumbnail,
		},
	},
	RateLimits: pigeongen.RateLimits{
		TokensPerMinute:   20000,
		RequestsPerMinute: 5,
	},
	Pricing: pigeongen.Pricing{
		ImageGenerationCost: 0.020, // 1024x1024
	},
}
