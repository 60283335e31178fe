package pigeongen

import (
	"context"
)

// MockImageGenerator is a mock implementation of ImageGenerator.
type MockImageGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error)
	ModelsFunc   func() []ModelInfo
	CloseFunc    func() error
}

func (m *MockImageGenerator) Generate(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Models() []ModelInfo {
	if m.ModelsFunc != nil {
		return m.ModelsFunc()
	}
	return []ModelInfo{}
}

func (m *MockImageGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockWordSource cycles through a fixed word sequence.
type MockWordSource struct {
	Words []string
	next  int
}

func (m *MockWordSource) NextAdjective() string {
	if len(m.Words) == 0 {
		return ""
	}
	word := m.Words[m.next%len(m.Words)]
	m.next++
	return word
}

// MockPublisher is a mock implementation of SocialPublisher.
type MockPublisher struct {
	PublishFunc func(ctx context.Context, path, caption, altText string) (*PublicationRecord, error)
	Calls       int
}

func (m *MockPublisher) Publish(ctx context.Context, path, caption, altText string) (*PublicationRecord, error) {
	m.Calls++
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, path, caption, altText)
	}
	return &PublicationRecord{}, nil
}
