package interfaces

import "github.com/arseniiv/relwatch/pkg/domain/model"

// MarkerStore keeps the per-repository seen-state markers. Lookups never
// fail; a repository without a marker yields the "nothing seen" sentinel.
// The store is accessed by a single logical session at a time.
type MarkerStore interface {
	// Get returns the marker for a repository, or the sentinel if absent
	Get(repo model.RepoID) model.SeenMarker

	// Update records a new marker for a repository in memory
	Update(repo model.RepoID, marker model.SeenMarker)

	// Save persists the current markers to durable storage
	Save() error
}
