package github

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"

	"github.com/arseniiv/relwatch/pkg/domain/interfaces"
	"github.com/arseniiv/relwatch/pkg/domain/model"
	"github.com/arseniiv/relwatch/pkg/domain/types"
)

const listPageSize = 100

type client struct {
	githubClient *github.Client
}

// New creates a GitHub-backed ReleaseSource authenticated with a personal
// access token. The handle is constructed once per program run and passed
// to callers explicitly.
func New(token string) interfaces.ReleaseSource {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &client{
		githubClient: github.NewClient(tc),
	}
}

// ListReleases returns the repository's releases in API order (newest
// first, not guaranteed monotonic), following pagination. Draft releases
// carry no stable publication date and are skipped.
func (c *client) ListReleases(ctx context.Context, repo model.RepoID) ([]model.RawRelease, error) {
	var out []model.RawRelease

	opts := &github.ListOptions{PerPage: listPageSize}
	for {
		releases, resp, err := c.githubClient.Repositories.ListReleases(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			if isNotFound(err) {
				return nil, goerr.Wrap(err, "repository not found",
					goerr.V("repo", repo.String()), goerr.T(types.ErrTagRepoNotFound))
			}
			return nil, goerr.Wrap(err, "failed to list releases", goerr.V("repo", repo.String()))
		}

		for _, rel := range releases {
			if rel.GetDraft() {
				continue
			}
			out = append(out, toRawRelease(rel))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// OpenAsset opens a reader streaming the asset content, following the
// download redirect.
func (c *client) OpenAsset(ctx context.Context, repo model.RepoID, asset model.Asset) (io.ReadCloser, error) {
	rc, _, err := c.githubClient.Repositories.DownloadReleaseAsset(
		ctx, repo.Owner, repo.Name, asset.ID, http.DefaultClient)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download release asset",
			goerr.V("repo", repo.String()), goerr.V("asset", asset.Name))
	}
	return rc, nil
}

// toRawRelease translates a go-github release to the internal model
func toRawRelease(rel *github.RepositoryRelease) model.RawRelease {
	// published_at is the closest stable equivalent of the release's
	// last-modified time exposed by the API
	lastModified := rel.GetPublishedAt().Time
	if lastModified.IsZero() {
		lastModified = rel.GetCreatedAt().Time
	}

	assets := make([]model.Asset, 0, len(rel.Assets))
	for _, a := range rel.Assets {
		assets = append(assets, model.Asset{
			ID:          a.GetID(),
			Name:        a.GetName(),
			Size:        int64(a.GetSize()),
			DownloadURL: a.GetBrowserDownloadURL(),
		})
	}

	return model.RawRelease{
		Name:         rel.GetName(),
		TagName:      rel.GetTagName(),
		Body:         rel.GetBody(),
		Prerelease:   rel.GetPrerelease(),
		LastModified: lastModified,
		TargetCommit: rel.GetTargetCommitish(),
		Assets:       assets,
	}
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) &&
		ghErr.Response != nil &&
		ghErr.Response.StatusCode == http.StatusNotFound
}
