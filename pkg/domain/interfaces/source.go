package interfaces

import (
	"context"
	"io"

	"github.com/arseniiv/relwatch/pkg/domain/model"
)

// ReleaseSource defines operations against a remote release provider. A
// source handle is constructed once per program run and threaded through
// calls rather than held as ambient state.
type ReleaseSource interface {
	// ListReleases returns the release stream for a repository in the
	// source's native order (typically newest-first, not guaranteed
	// monotonic). A missing repository yields an error tagged with
	// types.ErrTagRepoNotFound.
	ListReleases(ctx context.Context, repo model.RepoID) ([]model.RawRelease, error)

	// OpenAsset opens a reader streaming the asset content. The caller
	// closes the reader.
	OpenAsset(ctx context.Context, repo model.RepoID, asset model.Asset) (io.ReadCloser, error)
}
