package pigeongen

import (
	"log/slog"
)

// DefaultMaxAttempts caps how many draws a Selector makes before giving up.
// The original behavior was an unbounded loop; the cap turns vocabulary
// exhaustion into a typed error instead of a hang.
const DefaultMaxAttempts = 10000

// Selector picks an adjective that has not been used before. Draws from the
// word source are independent; the only uniqueness guarantee is against the
// exclusion set supplied per call.
type Selector struct {
	source      WordSource
	maxAttempts int
	logger      *slog.Logger
}

// NewSelector creates a Selector backed by the given word source.
func NewSelector(source WordSource) *Selector {
	return &Selector{
		source:      source,
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.Default(),
	}
}

// SetMaxAttempts overrides the draw cap.
func (s *Selector) SetMaxAttempts(n int) *Selector {
	if n > 0 {
		s.maxAttempts = n
	}
	return s
}

// SetLogger sets a structured logger for the selector.
func (s *Selector) SetLogger(logger *slog.Logger) *Selector {
	s.logger = logger
	return s
}

// Select returns the first drawn adjective not present in excluded
// (case-sensitive). Returns an ExhaustionError if the cap is reached,
// which callers must treat as fatal for the run.
func (s *Selector) Select(excluded map[string]struct{}) (string, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		candidate := s.source.NextAdjective()
		if _, used := excluded[candidate]; !used {
			s.logger.Debug("adjective selected",
				"adjective", candidate,
				"attempts", attempt,
				"excluded", len(excluded),
			)
			return candidate, nil
		}
	}

	s.logger.Error("adjective selection exhausted",
		"attempts", s.maxAttempts,
		"excluded", len(excluded),
	)
	return "", &ExhaustionError{Attempts: s.maxAttempts}
}
