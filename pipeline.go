package pigeongen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	// Registered so the pipeline can decode whatever format the provider
	// declares; output is always re-encoded as PNG.
	_ "image/jpeg"
	_ "image/png"
)

// OutputExt is the extension of persisted images; filename stems under it
// form the exclusion set.
const OutputExt = ".png"

// RunConfig configures a single pipeline invocation.
type RunConfig struct {
	// OutputDir is the directory images are read from (exclusion set) and
	// written to. Defaults to "./img".
	OutputDir string

	// PromptStyle selects the prompt template.
	PromptStyle PromptStyle

	// Generate holds the generation parameters. Nil means DefaultConfig.
	Generate *GenerateConfig

	// Publish, when true, posts the saved image through the configured
	// SocialPublisher after persistence.
	Publish bool
}

// RunResult reports what a run produced.
type RunResult struct {
	Adjective   string
	Prompt      string
	Path        string
	Publication *PublicationRecord
}

// Pipeline orchestrates one run: build exclusion set, select adjective,
// build prompt, generate, decode, persist, optionally publish. Steps are
// sequential and nothing is retried; the first failure aborts the run and
// already-written state is left as is.
type Pipeline struct {
	selector  *Selector
	generator ImageGenerator
	storage   Storage
	publisher SocialPublisher
	logger    *slog.Logger
}

// NewPipeline creates a Pipeline with local directory storage and no
// publisher.
func NewPipeline(selector *Selector, generator ImageGenerator) *Pipeline {
	return &Pipeline{
		selector:  selector,
		generator: generator,
		storage:   NewDirStorage(),
		logger:    slog.Default(),
	}
}

// SetStorage overrides the storage backend.
func (p *Pipeline) SetStorage(storage Storage) *Pipeline {
	p.storage = storage
	return p
}

// SetPublisher configures the social publisher used when RunConfig.Publish
// is set.
func (p *Pipeline) SetPublisher(publisher SocialPublisher) *Pipeline {
	p.publisher = publisher
	return p
}

// SetLogger sets a structured logger for the pipeline.
func (p *Pipeline) SetLogger(logger *slog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// Run executes one generation run and returns what it produced.
func (p *Pipeline) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "./img"
	}

	genConfig := cfg.Generate
	if genConfig == nil {
		genConfig = DefaultConfig()
	}

	logger := p.logger.With("run_id", uuid.NewString())

	excluded, err := Exclusions(outputDir, OutputExt)
	if err != nil {
		return nil, err
	}

	adjective, err := p.selector.Select(excluded)
	if err != nil {
		return nil, err
	}
	if err := ValidateAdjective(adjective); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(adjective, cfg.PromptStyle)
	logger.Info("generating image",
		"adjective", adjective,
		"model", string(genConfig.Model),
		"style", string(cfg.PromptStyle),
	)

	result, err := p.generator.Generate(ctx, prompt, genConfig)
	if err != nil {
		if IsGenerationError(err) || IsRateLimitError(err) {
			return nil, err
		}
		return nil, &GenerationError{Model: string(genConfig.Model), Err: err}
	}
	if len(result.Images) == 0 {
		return nil, &GenerationError{
			Model: string(genConfig.Model),
			Err:   errors.New("provider returned no images"),
		}
	}

	bitmap, _, err := image.Decode(bytes.NewReader(result.Images[0].Data))
	if err != nil {
		return nil, &GenerationError{
			Model: string(genConfig.Model),
			Err:   fmt.Errorf("decode image payload: %w", err),
		}
	}

	path := filepath.Join(outputDir, adjective+OutputExt)
	logger.Info("saving image", "path", path)

	saved, err := SaveImage(ctx, p.storage, bitmap, path)
	if err != nil {
		return nil, err
	}

	run := &RunResult{
		Adjective: adjective,
		Prompt:    prompt,
		Path:      saved,
	}

	if !cfg.Publish {
		return run, nil
	}

	if p.publisher == nil {
		return nil, &PublishError{Stage: PublishStageAuth, Err: ErrNoPublisher}
	}

	record, err := p.publisher.Publish(ctx, saved, Caption(adjective), AltText(adjective))
	if err != nil {
		return nil, err
	}
	run.Publication = record

	logger.Info("published",
		"media_id", record.MediaID,
		"status_id", record.StatusID,
		"status_url", record.URL,
	)

	return run, nil
}
