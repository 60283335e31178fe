package pigeongen

import (
	"math"
)

// TokenEstimator provides configurable token estimation strategies.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// PromptTokenEstimator is a fast approximation of prompt token usage,
// used only to feed the per-model rate limiter.
type PromptTokenEstimator struct {
	CharsPerToken float64
	SafetyMargin  float64
}

func NewPromptTokenEstimator() *PromptTokenEstimator {
	return &PromptTokenEstimator{
		CharsPerToken: 4.0,
		SafetyMargin:  1.2,
	}
}

func (e *PromptTokenEstimator) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	charCount := len([]rune(text))
	tokenEstimate := float64(charCount) / e.CharsPerToken
	tokenEstimate *= e.SafetyMargin

	return int(math.Ceil(tokenEstimate)) + 3
}
