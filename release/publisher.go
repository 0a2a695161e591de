package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/go-github/v68/github"
)

// ReleasesAPI is the slice of the GitHub repositories service the publisher
// calls. *github.RepositoriesService satisfies it.
type ReleasesAPI interface {
	CreateRelease(ctx context.Context, owner, repo string, release *github.RepositoryRelease) (*github.RepositoryRelease, *github.Response, error)
	UploadReleaseAsset(ctx context.Context, owner, repo string, id int64, opt *github.UploadOptions, file *os.File) (*github.ReleaseAsset, *github.Response, error)
}

var _ ReleasesAPI = (*github.RepositoriesService)(nil)

// NewGitHubAPI builds the real GitHub-backed API from a token.
func NewGitHubAPI(token string) ReleasesAPI {
	return github.NewClient(nil).WithAuthToken(token).Repositories
}

// Publisher creates releases on a single repository.
type Publisher struct {
	api    ReleasesAPI
	owner  string
	repo   string
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger for publish progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Publisher for the given repository.
func New(api ReleasesAPI, owner, repo string, opts ...Option) *Publisher {
	p := &Publisher{
		api:    api,
		owner:  owner,
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish creates the release and uploads every asset in descriptor order.
// A tag that already has a release fails with ErrReleaseExists before any
// asset is uploaded.
func (p *Publisher) Publish(ctx context.Context, desc *Descriptor) (*Published, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	params := &github.RepositoryRelease{
		TagName:    github.Ptr(desc.TagName),
		Name:       github.Ptr(desc.Title()),
		Draft:      github.Ptr(desc.Draft),
		Prerelease: github.Ptr(desc.Prerelease),
		MakeLatest: github.Ptr(makeLatestValue(desc.MakeLatest)),
	}
	if desc.Notes != "" {
		params.Body = github.Ptr(desc.Notes)
	}
	if desc.GenerateNotes {
		params.GenerateReleaseNotes = github.Ptr(true)
	}
	if desc.TargetCommitish != "" {
		params.TargetCommitish = github.Ptr(desc.TargetCommitish)
	}

	p.logger.InfoContext(ctx, "creating release",
		"tag", desc.TagName, "repo", p.owner+"/"+p.repo, "asset_count", len(desc.Assets))

	created, _, err := p.api.CreateRelease(ctx, p.owner, p.repo, params)
	if err != nil {
		if isAlreadyExists(err) {
			return nil, fmt.Errorf("%w: tag %s", ErrReleaseExists, desc.TagName)
		}
		return nil, fmt.Errorf("%w: creating release for %s: %v", ErrPublishFailed, desc.TagName, err)
	}

	published := &Published{
		ID:  created.GetID(),
		URL: created.GetHTMLURL(),
	}

	for _, asset := range desc.Assets {
		if err := p.uploadAsset(ctx, created.GetID(), asset.Path, asset.Name); err != nil {
			return nil, err
		}
		published.AssetNames = append(published.AssetNames, asset.Name)
	}

	p.logger.InfoContext(ctx, "release published",
		"tag", desc.TagName, "url", published.URL, "assets", len(published.AssetNames))
	return published, nil
}

// uploadAsset attaches one file to the release. The SDK requires a real file
// handle, so assets are read from the host filesystem directly.
func (p *Publisher) uploadAsset(ctx context.Context, releaseID int64, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening asset %s: %v", ErrPublishFailed, name, err)
	}
	defer file.Close()

	_, _, err = p.api.UploadReleaseAsset(ctx, p.owner, p.repo, releaseID,
		&github.UploadOptions{Name: name}, file)
	if err != nil {
		return fmt.Errorf("%w: uploading asset %s: %v", ErrPublishFailed, name, err)
	}

	p.logger.DebugContext(ctx, "uploaded asset", "name", name)
	return nil
}

// makeLatestValue maps the boolean onto the API's three-valued field.
func makeLatestValue(makeLatest bool) string {
	if makeLatest {
		return "true"
	}
	return "false"
}

// isAlreadyExists reports whether the create call was rejected because the
// tag already has a release.
func isAlreadyExists(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	for _, e := range ghErr.Errors {
		if e.Code == "already_exists" {
			return true
		}
	}
	return false
}
