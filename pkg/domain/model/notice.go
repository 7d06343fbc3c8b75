package model

// NoticeKind identifies an anomalous but non-fatal condition observed
// during a diff pass
type NoticeKind string

const (
	// NoticeCommitFallback: the marker was located by commit identity
	// because the date comparison failed to find it
	NoticeCommitFallback NoticeKind = "commit_fallback"

	// NoticePruned: the backward correction pass removed releases that
	// were accepted before the boundary was located
	NoticePruned NoticeKind = "pruned"

	// NoticeBoundaryNotFound: new releases were produced but the marker
	// was never located in the stream; the cached marker may be stale
	NoticeBoundaryNotFound NoticeKind = "boundary_not_found"
)

// Notice is a human-readable diagnostic produced by the diff engine. It is
// informational and never blocks progress.
type Notice struct {
	Kind    NoticeKind
	Message string
}
