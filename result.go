package pigeongen

// GeneratedImage represents a single generated image result.
type GeneratedImage struct {
	// Data contains the raw image bytes, already base64-decoded
	Data []byte

	// MIMEType of the generated image
	MIMEType string

	// Index is the position in a multi-image result (0-indexed)
	Index int

	// RevisedPrompt is the prompt after any model modifications
	RevisedPrompt string
}

// GenerateResult holds the complete result of an image generation request.
type GenerateResult struct {
	// Images contains all generated images
	Images []GeneratedImage

	// UsageMetadata contains token/billing information
	UsageMetadata *UsageMetadata
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
	ImageCount       int
}

// PublicationRecord holds the remote identifiers returned by the social
// provider after a successful publish. Used for the completion log line,
// not persisted.
type PublicationRecord struct {
	// MediaID of the uploaded attachment
	MediaID string

	// StatusID of the created post
	StatusID string

	// URL of the created post
	URL string
}
