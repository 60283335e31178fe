// Command pigeongen generates one image of an adjective-qualified pigeon in
// New York City, saves it under the output directory, and optionally posts
// it to Mastodon.
//
// Each run picks an adjective whose image does not already exist in the
// output directory, so repeated runs build up a collection:
//
//	pigeongen -o ./img
//	pigeongen -o ./img --publish
//
// The OpenAI models need OPENAI_API_KEY; Gemini models need GEMINI_API_KEY
// or GOOGLE_API_KEY. Publishing needs MASTODON_ACCESS_TOKEN (and optionally
// MASTODON_SERVER, MASTODON_CLIENT_KEY, MASTODON_CLIENT_SECRET).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/perchworks/pigeongen"
	"github.com/perchworks/pigeongen/provider/gemini"
	"github.com/perchworks/pigeongen/provider/openai"
	"github.com/perchworks/pigeongen/publisher/mastodon"
	"github.com/perchworks/pigeongen/wordlist"
)

type options struct {
	outputDir  string
	model      string
	style      string
	visibility string
	publish    bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "pigeongen",
		Short:         "Generate a pigeon portrait and optionally post it to Mastodon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "./img/",
		"directory images are saved to and checked against")
	cmd.Flags().StringVar(&opts.model, "model", string(pigeongen.ModelDallE3),
		"image model (dall-e-3, dall-e-2, gemini-2.5-flash-image)")
	cmd.Flags().StringVar(&opts.style, "style", string(pigeongen.PromptStyleFullBleed),
		"prompt style (full-bleed or camera-spec)")
	cmd.Flags().StringVar(&opts.visibility, "visibility", "public",
		"Mastodon post visibility (public, unlisted, private, direct)")
	cmd.Flags().BoolVar(&opts.publish, "publish", false,
		"post the saved image to Mastodon")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"enable debug logging")

	return cmd
}

func run(parent context.Context, opts *options) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	generator, err := buildGenerator(ctx, opts.model)
	if err != nil {
		return err
	}

	manager := pigeongen.NewManager(generator,
		pigeongen.WithLogger(logger),
		pigeongen.WithDefaultModel(pigeongen.Model(opts.model)),
	)
	defer manager.Close()

	pipeline := pigeongen.NewPipeline(
		pigeongen.NewSelector(wordlist.New()).SetLogger(logger),
		manager,
	).SetLogger(logger)

	if opts.publish {
		publisher := mastodon.New(mastodon.CredentialsFromEnv()).
			SetVisibility(opts.visibility)
		pipeline.SetPublisher(publisher)
	}

	result, err := pipeline.Run(ctx, pigeongen.RunConfig{
		OutputDir:   opts.outputDir,
		PromptStyle: pigeongen.PromptStyle(opts.style),
		Generate:    pigeongen.DefaultConfigWithModel(pigeongen.Model(opts.model)),
		Publish:     opts.publish,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Saved %s pigeon to %s\n", result.Adjective, result.Path)
	if result.Publication != nil {
		fmt.Printf("Posted: %s\n", result.Publication.URL)
	}
	return nil
}

// buildGenerator picks the provider from the model name. Gemini models are
// routed to the genai SDK; everything else goes to the OpenAI Images API.
func buildGenerator(ctx context.Context, model string) (pigeongen.ImageGenerator, error) {
	if strings.HasPrefix(model, "gemini") {
		return gemini.New(ctx, nil)
	}
	return openai.New(nil)
}
