package usecase

import (
	"fmt"
	"slices"
	"time"

	"github.com/arseniiv/relwatch/pkg/domain/model"
)

// diffState tracks whether the persisted marker has been located in the
// release stream
type diffState int

const (
	// stateScanning: the boundary has not been confirmed yet
	stateScanning diffState = iota
	// stateConfirmed: the boundary was located, by date or by commit
	stateConfirmed
)

// Differ computes which releases in a repository's stream are new relative
// to a persisted seen-state marker. The stream is assumed newest-first but
// not strictly monotonic: the forward scan tolerates local date dips, and
// a backward correction pass removes anything accepted before the boundary
// was located. A Differ is pure; it performs no I/O and raises no errors.
type Differ struct {
	repo             model.RepoSpec
	assumeDecreasing bool
	compareCommits   bool
}

// NewDiffer creates a Differ for one repository.
//
// assumeDecreasing stops the scan as soon as a release older than the
// confirmed boundary is seen; this is an optimization that is only safe
// together with the correction pass. compareCommits enables the commit
// identity fallback for sources that rewrite release dates.
func NewDiffer(repo model.RepoSpec, assumeDecreasing, compareCommits bool) *Differ {
	return &Differ{
		repo:             repo,
		assumeDecreasing: assumeDecreasing,
		compareCommits:   compareCommits,
	}
}

// DiffResult is the outcome of one diff pass
type DiffResult struct {
	// Releases are the new releases, sorted by date descending, ties kept
	// in input order
	Releases []model.ClassifiedRelease
	// Notices are non-fatal diagnostics for anomalous conditions
	Notices []model.Notice
}

// Diff scans the release stream against the marker and returns the new
// releases with classified assets.
func (d *Differ) Diff(raws []model.RawRelease, marker model.SeenMarker) DiffResult {
	state := stateScanning
	var boundary time.Time
	var out []model.ClassifiedRelease
	var notices []model.Notice

scan:
	for _, rel := range raws {
		switch {
		case state == stateConfirmed && rel.LastModified.Before(boundary):
			// Older than the known boundary. With a monotonic source the
			// rest of the stream is older still.
			if d.assumeDecreasing {
				break scan
			}

		case rel.LastModified.Equal(marker.LastReleaseDate):
			// Boundary found by date; this release and everything at or
			// beyond it is already seen.
			state = stateConfirmed
			boundary = rel.LastModified
			if d.assumeDecreasing {
				break scan
			}

		case state == stateScanning && d.compareCommits &&
			marker.LastReleaseCommit != "" && rel.TargetCommit == marker.LastReleaseCommit:
			// The source rewrote the release date but the commit still
			// identifies the acknowledged release.
			notices = append(notices, model.Notice{
				Kind: model.NoticeCommitFallback,
				Message: fmt.Sprintf("date didn't match but commit did: %s (tag %s, %s)",
					rel.Name, rel.TagName, rel.LastModified.Format(time.RFC3339)),
			})
			state = stateConfirmed
			boundary = rel.LastModified
			if d.assumeDecreasing {
				break scan
			}

		default:
			out = append(out, model.ClassifiedRelease{
				Raw:          rel,
				Repo:         d.repo.ID,
				LastModified: rel.LastModified,
				Commit:       rel.TargetCommit,
				Buckets:      ClassifyAssets(rel.Assets, d.repo.Matchers),
			})
		}
	}

	switch {
	case state == stateConfirmed:
		// Correction pass: the boundary may have been located after some
		// older releases were already accepted due to date jitter.
		kept := slices.DeleteFunc(out, func(r model.ClassifiedRelease) bool {
			return r.LastModified.Before(boundary)
		})
		if len(kept) != len(out) {
			notices = append(notices, model.Notice{
				Kind: model.NoticePruned,
				Message: fmt.Sprintf("pruned %d release(s) older than the confirmed boundary %s",
					len(out)-len(kept), boundary.Format(time.RFC3339)),
			})
		}
		out = kept

	case len(out) > 0:
		notices = append(notices, model.Notice{
			Kind:    model.NoticeBoundaryNotFound,
			Message: "last acknowledged release was not found in the current stream; the cached marker may be stale",
		})
	}

	slices.SortStableFunc(out, func(a, b model.ClassifiedRelease) int {
		return b.LastModified.Compare(a.LastModified)
	})

	return DiffResult{Releases: out, Notices: notices}
}
