package pigeongen

import "context"

// WordSource supplies candidate adjectives for prompt building.
// Draws are independent and may repeat; deduplication against previously
// used words is the Selector's job, not the source's.
type WordSource interface {
	// NextAdjective returns one lowercase adjective from the vocabulary.
	NextAdjective() string
}

// ImageGenerator is the core interface for image generation backends.
// Implement this interface to add support for new models or providers.
//
// The first model returned by Models() is considered the default model.
type ImageGenerator interface {
	// Generate creates images from a text prompt.
	Generate(ctx context.Context, prompt string, genConfig *GenerateConfig) (*GenerateResult, error)

	// Models returns the model definitions supported by this provider.
	// The first model in the list is the default.
	Models() []ModelInfo

	// Close releases any resources held by the generator.
	Close() error
}

// SocialPublisher posts a generated image to a social network.
type SocialPublisher interface {
	// Publish uploads the file at path as a media attachment carrying the
	// given alt text, then creates a post with the caption referencing the
	// uploaded media. Returns the remote identifiers of the new post.
	Publish(ctx context.Context, path string, caption string, altText string) (*PublicationRecord, error)
}
