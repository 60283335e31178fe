package pigeongen

import (
	"errors"
	"fmt"
	"time"
)

// GenerationError is returned when the image provider call fails or its
// response payload is malformed or absent. Never retried; it propagates to
// the caller and aborts the run.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("image generation failed for %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError checks if an error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// PersistenceError is returned on filesystem failures while listing or
// writing the output directory.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed for %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError checks if an error is a PersistenceError.
func IsPersistenceError(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}

// PublishStage identifies which publishing step failed.
type PublishStage string

const (
	PublishStageAuth   PublishStage = "auth"
	PublishStageUpload PublishStage = "upload"
	PublishStagePost   PublishStage = "post"
)

// PublishError is returned on authentication, media upload, or post
// creation failure. A post failure after a successful upload leaves the
// orphaned media attachment on the remote service; nothing is rolled back.
type PublishError struct {
	Stage PublishStage
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed at %s: %v", e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// IsPublishError checks if an error is a PublishError.
func IsPublishError(err error) bool {
	var pubErr *PublishError
	return errors.As(err, &pubErr)
}

// ExhaustionError is returned when the Selector hits its attempt cap
// without finding an adjective outside the exclusion set.
type ExhaustionError struct {
	Attempts int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("adjective selection exhausted after %d attempts", e.Attempts)
}

// IsExhaustionError checks if an error is an ExhaustionError.
func IsExhaustionError(err error) bool {
	var exErr *ExhaustionError
	return errors.As(err, &exErr)
}

// RateLimitError is returned when a rate limit is hit.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// ErrStorageNotConfigured is returned when persistence is attempted
// without a configured storage backend.
var ErrStorageNotConfigured = errors.New("storage not configured")

// ErrNoPublisher is returned when a run requests publishing but the
// pipeline has no publisher configured.
var ErrNoPublisher = errors.New("no publisher configured")
