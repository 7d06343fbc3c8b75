package interfaces

import (
	"context"

	"github.com/arseniiv/relwatch/pkg/domain/model"
)

// Notifier pushes a summary of newly found releases to an external channel
type Notifier interface {
	NotifyNewReleases(ctx context.Context, repo model.RepoID, releases []model.ClassifiedRelease) error
}
