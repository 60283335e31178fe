package pigeongen

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyPrompt       = errors.New("prompt cannot be empty")
	ErrEmptyAdjective    = errors.New("adjective cannot be empty")
	ErrInvalidAdjective  = errors.New("adjective is not a safe filename token")
	ErrInvalidQuality    = errors.New("invalid quality tier")
	ErrInvalidStyle      = errors.New("invalid style tier")
	ErrInvalidImageCount = errors.New("number of images cannot be negative")
)

// ValidatePrompt validates a text prompt.
func ValidatePrompt(prompt string) error {
	if prompt == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateAdjective validates that an adjective is usable both in a prompt
// and as a filename stem. The word source is expected to yield lowercase
// tokens; anything outside [a-z-] is rejected rather than sanitized.
func ValidateAdjective(adjective string) error {
	if adjective == "" {
		return ErrEmptyAdjective
	}
	for _, r := range adjective {
		if (r < 'a' || r > 'z') && r != '-' {
			return fmt.Errorf("%w: %q", ErrInvalidAdjective, adjective)
		}
	}
	return nil
}

// ValidateConfig validates the tier parameters of a GenerateConfig.
// Zero values are allowed; providers fill in their own defaults.
func ValidateConfig(config *GenerateConfig) error {
	if config == nil {
		return nil
	}
	switch config.Quality {
	case "", QualityStandard, QualityHD:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidQuality, config.Quality)
	}
	switch config.Style {
	case "", StyleNatural, StyleVivid:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStyle, config.Style)
	}
	if config.NumberOfImages < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidImageCount, config.NumberOfImages)
	}
	return nil
}
