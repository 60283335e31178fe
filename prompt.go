package pigeongen

import "fmt"

// PromptStyle selects which prompt template a run uses. Both templates are
// pure functions of the adjective.
type PromptStyle string

const (
	// PromptStyleFullBleed is the full photographic-description template.
	PromptStyleFullBleed PromptStyle = "full-bleed"

	// PromptStyleCameraSpec is the short technical camera-spec template.
	PromptStyleCameraSpec PromptStyle = "camera-spec"
)

const (
	fullBleedTemplate = "A full-bleed, color image of a %s pigeon in New York City. " +
		"The pigeon should dominate the foreground and be rendered realistically, " +
		"its details captured meticulously. No text. Nothing outside the image. " +
		"Realistic nature photography."

	cameraSpecTemplate = "A %s pigeon on a New York City sidewalk. 35mm photo, " +
		"f/2.8, natural light, shallow depth of field. No text or borders."
)

// BuildPrompt renders the prompt for an adjective. Unknown styles fall back
// to the full-bleed template.
func BuildPrompt(adjective string, style PromptStyle) string {
	switch style {
	case PromptStyleCameraSpec:
		return fmt.Sprintf(cameraSpecTemplate, adjective)
	default:
		return fmt.Sprintf(fullBleedTemplate, adjective)
	}
}

// Caption renders the post text used when publishing.
func Caption(adjective string) string {
	return fmt.Sprintf("A %s pigeon in New York City.", adjective)
}

// AltText renders the media description used when publishing.
func AltText(adjective string) string {
	return fmt.Sprintf("An AI-generated photograph of a %s pigeon in New York City.", adjective)
}
