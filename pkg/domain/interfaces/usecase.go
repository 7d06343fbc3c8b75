package interfaces

import (
	"context"

	"github.com/arseniiv/relwatch/pkg/domain/model"
)

// WatchUseCase defines the per-repository release watching operations
type WatchUseCase interface {
	// NewReleases fetches the release stream for a repository, diffs it
	// against the persisted marker and returns the genuinely new
	// releases, newest first, with classified assets. Diagnostic notices
	// are logged, not returned.
	NewReleases(ctx context.Context, repo model.RepoSpec) ([]model.ClassifiedRelease, error)

	// Acknowledge records a release as seen and persists the marker
	Acknowledge(ctx context.Context, release model.ClassifiedRelease) error

	// DownloadAsset streams one asset into destDir and returns the
	// written file path
	DownloadAsset(ctx context.Context, repo model.RepoID, asset model.Asset, destDir string) (string, error)
}
