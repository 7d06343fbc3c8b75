package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/arseniiv/relwatch/pkg/domain/interfaces"
	"github.com/arseniiv/relwatch/pkg/domain/model"
)

type watchUseCase struct {
	source           interfaces.ReleaseSource
	store            interfaces.MarkerStore
	assumeDecreasing bool
	compareCommits   bool
}

// WatchOption configures the watch use case
type WatchOption func(*watchUseCase)

// WithAssumeDecreasing controls the early-stop optimization of the diff
// scan (default true)
func WithAssumeDecreasing(v bool) WatchOption {
	return func(uc *watchUseCase) { uc.assumeDecreasing = v }
}

// WithCompareCommits enables the commit identity fallback when locating
// the seen-state boundary (default false)
func WithCompareCommits(v bool) WatchOption {
	return func(uc *watchUseCase) { uc.compareCommits = v }
}

// NewWatch creates a new instance of WatchUseCase
func NewWatch(source interfaces.ReleaseSource, store interfaces.MarkerStore, options ...WatchOption) interfaces.WatchUseCase {
	uc := &watchUseCase{
		source:           source,
		store:            store,
		assumeDecreasing: true,
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc
}

// NewReleases fetches the repository's release stream, diffs it against
// the persisted marker and returns the new releases, newest first. Diff
// notices are logged as warnings.
func (uc *watchUseCase) NewReleases(ctx context.Context, repo model.RepoSpec) ([]model.ClassifiedRelease, error) {
	logger := ctxlog.From(ctx)

	raws, err := uc.source.ListReleases(ctx, repo.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list releases", goerr.V("repo", repo.ID.String()))
	}

	marker := uc.store.Get(repo.ID)
	result := NewDiffer(repo, uc.assumeDecreasing, uc.compareCommits).Diff(raws, marker)

	for _, n := range result.Notices {
		logger.Warn("diff anomaly",
			"repo", repo.ID.String(),
			"kind", string(n.Kind),
			"message", n.Message,
		)
	}

	logger.Debug("diffed release stream",
		"repo", repo.ID.String(),
		"stream_size", len(raws),
		"new_releases", len(result.Releases),
	)

	return result.Releases, nil
}

// Acknowledge records the release's marker and persists the store
func (uc *watchUseCase) Acknowledge(ctx context.Context, release model.ClassifiedRelease) error {
	uc.store.Update(release.Repo, release.Marker())
	if err := uc.store.Save(); err != nil {
		return goerr.Wrap(err, "failed to persist seen-state cache",
			goerr.V("repo", release.Repo.String()))
	}

	ctxlog.From(ctx).Info("acknowledged release",
		"repo", release.Repo.String(),
		"tag", release.Raw.TagName,
		"date", release.LastModified,
	)
	return nil
}

// DownloadAsset streams one asset into destDir and returns the file path
func (uc *watchUseCase) DownloadAsset(ctx context.Context, repo model.RepoID, asset model.Asset, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", goerr.Wrap(err, "failed to create download directory", goerr.V("dir", destDir))
	}

	rc, err := uc.source.OpenAsset(ctx, repo, asset)
	if err != nil {
		return "", goerr.Wrap(err, "failed to open asset",
			goerr.V("repo", repo.String()), goerr.V("asset", asset.Name))
	}
	defer rc.Close()

	destPath := filepath.Join(destDir, asset.Name)
	f, err := os.Create(destPath)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create destination file", goerr.V("path", destPath))
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return "", goerr.Wrap(err, "failed to write asset content", goerr.V("path", destPath))
	}

	return destPath, nil
}
