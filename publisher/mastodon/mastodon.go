// Package mastodon posts generated images to a Mastodon instance using
// https://github.com/mattn/go-mastodon.
//
// Publishing is two calls: upload the file as a media attachment carrying
// the alt text, then create a status referencing the attachment. A status
// failure after a successful upload leaves the attachment orphaned on the
// instance; it is never deleted.
package mastodon

import (
	"context"
	"errors"
	"os"

	mstdn "github.com/mattn/go-mastodon"

	"github.com/perchworks/pigeongen"
)

// DefaultServer is the instance used when MASTODON_SERVER is not set.
const DefaultServer = "https://mastodon.social"

// Credentials for the posting account. Never embedded in code; sourced
// from the environment at the CLI edge.
type Credentials struct {
	Server       string
	ClientKey    string
	ClientSecret string
	AccessToken  string
}

// CredentialsFromEnv reads MASTODON_SERVER, MASTODON_CLIENT_KEY,
// MASTODON_CLIENT_SECRET, and MASTODON_ACCESS_TOKEN. Missing values are
// not an error here; they surface as an auth failure at publish time.
func CredentialsFromEnv() Credentials {
	server := os.Getenv("MASTODON_SERVER")
	if server == "" {
		server = DefaultServer
	}
	return Credentials{
		Server:       server,
		ClientKey:    os.Getenv("MASTODON_CLIENT_KEY"),
		ClientSecret: os.Getenv("MASTODON_CLIENT_SECRET"),
		AccessToken:  os.Getenv("MASTODON_ACCESS_TOKEN"),
	}
}

// Publisher implements pigeongen.SocialPublisher against a Mastodon
// instance.
type Publisher struct {
	client     *mstdn.Client
	visibility string
}

// Ensure Publisher implements the interface.
var _ pigeongen.SocialPublisher = (*Publisher)(nil)

// New creates a Publisher. Construction never fails; missing credentials
// are reported by Publish.
func New(creds Credentials) *Publisher {
	server := creds.Server
	if server == "" {
		server = DefaultServer
	}

	client := mstdn.NewClient(&mstdn.Config{
		Server:       server,
		ClientID:     creds.ClientKey,
		ClientSecret: creds.ClientSecret,
		AccessToken:  creds.AccessToken,
	})

	return &Publisher{
		client:     client,
		visibility: "public",
	}
}

// SetVisibility overrides the post visibility (public, unlisted, private,
// direct).
func (p *Publisher) SetVisibility(visibility string) *Publisher {
	if visibility != "" {
		p.visibility = visibility
	}
	return p
}

// Publish uploads the image at path with altText as its description, then
// posts a status with the caption referencing the uploaded media.
func (p *Publisher) Publish(ctx context.Context, path string, caption string, altText string) (*pigeongen.PublicationRecord, error) {
	if p.client.Config.AccessToken == "" {
		return nil, &pigeongen.PublishError{
			Stage: pigeongen.PublishStageAuth,
			Err:   errors.New("MASTODON_ACCESS_TOKEN is not set"),
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &pigeongen.PublishError{Stage: pigeongen.PublishStageUpload, Err: err}
	}
	defer file.Close()

	attachment, err := p.client.UploadMediaFromMedia(ctx, &mstdn.Media{
		File:        file,
		Description: altText,
	})
	if err != nil {
		return nil, &pigeongen.PublishError{Stage: pigeongen.PublishStageUpload, Err: err}
	}

	status, err := p.client.PostStatus(ctx, &mstdn.Toot{
		Status:     caption,
		MediaIDs:   []mstdn.ID{attachment.ID},
		Visibility: p.visibility,
	})
	if err != nil {
		// The uploaded attachment stays on the instance; single-shot runs
		// do not compensate.
		return nil, &pigeongen.PublishError{Stage: pigeongen.PublishStagePost, Err: err}
	}

	return &pigeongen.PublicationRecord{
		MediaID:  string(attachment.ID),
		StatusID: string(status.ID),
		URL:      status.URL,
	}, nil
}
