package pigeongen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/perchworks/pigeongen/ratelimiter"
)

func testModelInfo() []ModelInfo {
	return []ModelInfo{
		{
			Name:         "dall-e-3",
			Provider:     ProviderOpenAI,
			APIModelName: "dall-e-3",
			Capabilities: ModelCapabilities{
				SupportsQuality: true,
				SupportsStyle:   true,
				MaxOutputImages: 1,
			},
			ImageConstraints: ImageConstraints{
				SupportedSizes: []ImageSize{ImageSizeSquare, ImageSizeWide, ImageSizeTall},
			},
		},
	}
}

// stubLimiter lets tests force rate limit outcomes.
type stubLimiter struct {
	allow      bool
	retryAfter time.Duration
	waitErr    error
	consumed   []int
}

func (s *stubLimiter) TryConsume(numTokens int) bool {
	s.consumed = append(s.consumed, numTokens)
	return s.allow
}

func (s *stubLimiter) TimeUntilAvailable(tokens int) time.Duration {
	return s.retryAfter
}

func (s *stubLimiter) WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error {
	s.consumed = append(s.consumed, tokens)
	return s.waitErr
}

var _ ratelimiter.Limiter = (*stubLimiter)(nil)

func newTestManager(provider *MockImageGenerator) *Manager {
	if provider.ModelsFunc == nil {
		provider.ModelsFunc = testModelInfo
	}
	return NewManager(provider)
}

func TestManager_RoutesToDefaultModel(t *testing.T) {
	var sawModel Model
	provider := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			sawModel = config.Model
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("img")}}}, nil
		},
	}
	manager := newTestManager(provider)

	result, err := manager.Generate(context.Background(), "a calm pigeon", nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(result.Images) != 1 {
		t.Errorf("expected 1 image, got %d", len(result.Images))
	}
	if sawModel != ModelDallE3 {
		t.Errorf("provider saw model %q, want %q", sawModel, ModelDallE3)
	}
}

func TestManager_UnregisteredModel(t *testing.T) {
	manager := newTestManager(&MockImageGenerator{})

	_, err := manager.Generate(context.Background(), "prompt",
		DefaultConfigWithModel("imaginary-model"))
	if !errors.Is(err, ErrModelNotRegistered) {
		t.Errorf("expected ErrModelNotRegistered, got %v", err)
	}
}

func TestManager_InvalidConfigRejectedBeforeProvider(t *testing.T) {
	called := false
	provider := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			called = true
			return &GenerateResult{}, nil
		},
	}
	manager := newTestManager(provider)

	config := DefaultConfig()
	config.Quality = "ultra"

	_, err := manager.Generate(context.Background(), "prompt", config)
	if !errors.Is(err, ErrInvalidQuality) {
		t.Errorf("expected ErrInvalidQuality, got %v", err)
	}
	if called {
		t.Error("provider must not be called for an invalid config")
	}
}

func TestManager_RateLimitDenied(t *testing.T) {
	provider := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			t.Fatal("provider must not be called when rate limited")
			return nil, nil
		},
	}
	manager := newTestManager(provider)

	limiter := &stubLimiter{allow: false, retryAfter: 30 * time.Second}
	manager.SetRateLimiter(ModelDallE3, limiter)

	_, err := manager.Generate(context.Background(), "prompt", nil)
	if err == nil {
		t.Fatal("expected rate limit error")
	}

	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
	if rlErr.RetryAfter != 30*time.Second {
		t.Errorf("retry after = %v, want 30s", rlErr.RetryAfter)
	}
	if len(limiter.consumed) == 0 {
		t.Error("limiter was never consulted")
	}
}

func TestManager_WaitOnRateLimit(t *testing.T) {
	provider := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("img")}}}, nil
		},
	}
	manager := newTestManager(provider)

	limiter := &stubLimiter{}
	manager.SetRateLimiter(ModelDallE3, limiter)

	config := DefaultConfig()
	config.WaitOnRateLimit = true
	config.MaxWaitDuration = time.Minute

	if _, err := manager.Generate(context.Background(), "prompt", config); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(limiter.consumed) != 1 {
		t.Errorf("expected one WaitAndConsume call, got %d", len(limiter.consumed))
	}
}

func TestManager_ModelLookup(t *testing.T) {
	manager := newTestManager(&MockImageGenerator{})

	provider, ok := manager.GetModelProvider(ModelDallE3)
	if !ok || provider != ProviderOpenAI {
		t.Errorf("GetModelProvider = %q, %v", provider, ok)
	}

	info, ok := manager.GetModelInfo(ModelDallE3)
	if !ok || !info.Capabilities.SupportsQuality {
		t.Errorf("GetModelInfo = %+v, %v", info, ok)
	}

	if _, ok := manager.GetModelProvider("unknown"); ok {
		t.Error("unknown model should not resolve")
	}

	if models := manager.ListModels(); len(models) != 1 {
		t.Errorf("ListModels returned %d models", len(models))
	}
}

func TestManager_CloseReleasesProviders(t *testing.T) {
	closed := false
	provider := &MockImageGenerator{
		CloseFunc: func() error {
			closed = true
			return nil
		},
	}
	manager := newTestManager(provider)

	if err := manager.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !closed {
		t.Error("provider was not closed")
	}
}
