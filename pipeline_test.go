package pigeongen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func pipelineFixture(t *testing.T) (*Pipeline, *MockImageGenerator, string) {
	t.Helper()

	raw, _ := fixedPNGPayload(t)
	generator := &MockImageGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			return &GenerateResult{
				Images: []GeneratedImage{{Data: raw, MIMEType: "image/png"}},
			}, nil
		},
	}

	source := &MockWordSource{Words: []string{"calm", "furious", "jubilant"}}
	pipeline := NewPipeline(NewSelector(source), generator).
		SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return pipeline, generator, t.TempDir()
}

func TestPipeline_RunSavesNovelAdjective(t *testing.T) {
	pipeline, _, dir := pipelineFixture(t)

	// Prior runs already produced calm and furious.
	for _, name := range []string{"calm.png", "furious.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	result, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Adjective != "jubilant" {
		t.Errorf("adjective = %q, want jubilant", result.Adjective)
	}
	if result.Path != filepath.Join(dir, "jubilant.png") {
		t.Errorf("path = %q", result.Path)
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
	if result.Publication != nil {
		t.Error("publication recorded without --publish")
	}
}

func TestPipeline_PromptMatchesSelectedAdjective(t *testing.T) {
	pipeline, generator, dir := pipelineFixture(t)

	var seenPrompt string
	inner := generator.GenerateFunc
	generator.GenerateFunc = func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
		seenPrompt = prompt
		return inner(ctx, prompt, config)
	}

	result, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if seenPrompt != BuildPrompt(result.Adjective, PromptStyleFullBleed) {
		t.Errorf("provider saw %q, want the full-bleed prompt for %q", seenPrompt, result.Adjective)
	}
	if result.Prompt != seenPrompt {
		t.Errorf("result prompt %q differs from provider prompt %q", result.Prompt, seenPrompt)
	}
}

func TestPipeline_GenerationFailureWritesNothing(t *testing.T) {
	pipeline, generator, dir := pipelineFixture(t)
	generator.GenerateFunc = func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
		return nil, errors.New("upstream down")
	}

	_, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsGenerationError(err) {
		t.Errorf("expected GenerationError, got %T: %v", err, err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("expected no output files, found %d", len(entries))
	}
}

func TestPipeline_EmptyResultIsGenerationError(t *testing.T) {
	pipeline, generator, dir := pipelineFixture(t)
	generator.GenerateFunc = func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
		return &GenerateResult{}, nil
	}

	_, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir})
	if !IsGenerationError(err) {
		t.Errorf("expected GenerationError for empty result, got %v", err)
	}
}

func TestPipeline_MalformedPayloadIsGenerationError(t *testing.T) {
	pipeline, generator, dir := pipelineFixture(t)
	generator.GenerateFunc = func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
		return &GenerateResult{
			Images: []GeneratedImage{{Data: []byte("not an image"), MIMEType: "image/png"}},
		}, nil
	}

	_, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir})
	if !IsGenerationError(err) {
		t.Errorf("expected GenerationError for malformed payload, got %v", err)
	}
}

func TestPipeline_PublishSuccess(t *testing.T) {
	pipeline, _, dir := pipelineFixture(t)

	publisher := &MockPublisher{
		PublishFunc: func(ctx context.Context, path, caption, altText string) (*PublicationRecord, error) {
			return &PublicationRecord{MediaID: "m1", StatusID: "s1", URL: "https://mastodon.example/s1"}, nil
		},
	}
	pipeline.SetPublisher(publisher)

	result, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir, Publish: true})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if publisher.Calls != 1 {
		t.Errorf("publisher called %d times, want 1", publisher.Calls)
	}
	if result.Publication == nil || result.Publication.StatusID != "s1" {
		t.Errorf("publication = %+v", result.Publication)
	}
}

func TestPipeline_PublishFailureKeepsSavedFile(t *testing.T) {
	pipeline, _, dir := pipelineFixture(t)

	pipeline.SetPublisher(&MockPublisher{
		PublishFunc: func(ctx context.Context, path, caption, altText string) (*PublicationRecord, error) {
			return nil, &PublishError{Stage: PublishStagePost, Err: errors.New("instance unreachable")}
		},
	})

	_, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir, Publish: true})
	if !IsPublishError(err) {
		t.Fatalf("expected PublishError, got %v", err)
	}

	// The local image survives the failed publish.
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 1 {
		t.Errorf("expected the saved image to remain, found %d entries", len(entries))
	}
}

func TestPipeline_PublishWithoutPublisher(t *testing.T) {
	pipeline, _, dir := pipelineFixture(t)

	_, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir, Publish: true})
	if err == nil {
		t.Fatal("expected error")
	}

	var pubErr *PublishError
	if !errors.As(err, &pubErr) || pubErr.Stage != PublishStageAuth {
		t.Errorf("expected auth-stage PublishError, got %v", err)
	}
	if !errors.Is(err, ErrNoPublisher) {
		t.Errorf("expected ErrNoPublisher in chain, got %v", err)
	}
}

func TestPipeline_ExhaustedVocabulary(t *testing.T) {
	pipeline, _, dir := pipelineFixture(t)
	pipeline.selector.SetMaxAttempts(10)

	if err := os.WriteFile(filepath.Join(dir, "calm.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "furious.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "jubilant.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := pipeline.Run(context.Background(), RunConfig{OutputDir: dir})
	if !IsExhaustionError(err) {
		t.Errorf("expected ExhaustionError, got %v", err)
	}
}
