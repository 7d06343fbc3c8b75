package model

import "time"

// SeenMarker is the persisted identity of the most recently acknowledged
// release for a repository. The zero value means "nothing seen yet": a
// minimal date and an empty commit.
type SeenMarker struct {
	LastReleaseDate   time.Time
	LastReleaseCommit string
}

// NothingSeen returns the sentinel marker for repositories with no
// acknowledged release
func NothingSeen() SeenMarker {
	return SeenMarker{}
}

// Asset is a downloadable file attached to a release
type Asset struct {
	ID          int64
	Name        string
	Size        int64
	DownloadURL string
}

// RawRelease is a release record as produced by the source adapter. The
// stream order is the source's native order, typically newest-first but
// not guaranteed monotonic.
type RawRelease struct {
	Name         string
	TagName      string
	Body         string
	Prerelease   bool
	LastModified time.Time
	TargetCommit string
	Assets       []Asset
}

// AssetBucket holds the assets matched by one configured matcher. Buckets
// are kept per matcher, in matcher-definition order, so two matchers with
// identical pattern text never merge.
type AssetBucket struct {
	Pattern string
	Assets  []Asset
}

// ClassifiedRelease is a release the diff engine accepted as new, with its
// assets partitioned into matcher buckets. Immutable once created.
type ClassifiedRelease struct {
	Raw          RawRelease
	Repo         RepoID
	LastModified time.Time
	Commit       string
	Buckets      []AssetBucket
}

// Marker returns the seen-state marker acknowledging this release
func (r ClassifiedRelease) Marker() SeenMarker {
	return SeenMarker{
		LastReleaseDate:   r.LastModified,
		LastReleaseCommit: r.Commit,
	}
}

// MatchedAssets flattens the buckets in order. An asset matched by several
// matchers appears once per matching bucket.
func (r ClassifiedRelease) MatchedAssets() []Asset {
	var assets []Asset
	for _, b := range r.Buckets {
		assets = append(assets, b.Assets...)
	}
	return assets
}
