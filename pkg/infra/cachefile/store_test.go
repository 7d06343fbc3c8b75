package cachefile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/arseniiv/relwatch/pkg/domain/model"
	"github.com/arseniiv/relwatch/pkg/infra/cachefile"
)

func TestStore_MissingFileYieldsSentinel(t *testing.T) {
	store, err := cachefile.Open(filepath.Join(t.TempDir(), "nope.cache.toml"))
	gt.NoError(t, err)

	marker := store.Get(model.RepoID{Owner: "acme", Name: "widget"})
	gt.Value(t, marker).Equal(model.NothingSeen())
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relwatch.cache.toml")
	repo := model.RepoID{Owner: "acme", Name: "widget"}
	date := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	store, err := cachefile.Open(path)
	gt.NoError(t, err)
	store.Update(repo, model.SeenMarker{LastReleaseDate: date, LastReleaseCommit: "abc123"})
	gt.NoError(t, store.Save())

	reopened, err := cachefile.Open(path)
	gt.NoError(t, err)
	marker := reopened.Get(repo)
	gt.Value(t, marker.LastReleaseCommit).Equal("abc123")
	gt.Value(t, marker.LastReleaseDate.Equal(date)).Equal(true)

	// other repositories are still unseen
	gt.Value(t, reopened.Get(model.RepoID{Owner: "acme", Name: "other"})).Equal(model.NothingSeen())
}

func TestStore_UpdateOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relwatch.cache.toml")
	repo := model.RepoID{Owner: "acme", Name: "widget"}

	store, err := cachefile.Open(path)
	gt.NoError(t, err)
	store.Update(repo, model.SeenMarker{LastReleaseDate: time.Unix(100, 0).UTC(), LastReleaseCommit: "old"})
	store.Update(repo, model.SeenMarker{LastReleaseDate: time.Unix(200, 0).UTC(), LastReleaseCommit: "new"})
	gt.NoError(t, store.Save())

	reopened, err := cachefile.Open(path)
	gt.NoError(t, err)
	gt.Value(t, reopened.Get(repo).LastReleaseCommit).Equal("new")
}

func TestStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.cache.toml")
	gt.NoError(t, os.WriteFile(path, []byte("repos = 'not a table"), 0644))

	_, err := cachefile.Open(path)
	gt.Error(t, err)
}

func TestStore_ExistingFormat(t *testing.T) {
	// The on-disk layout readable by this store
	content := `[repos."acme/widget"]
last_release_commit = "deadbeef"
last_release_date = 2024-01-02T03:04:05Z
`
	path := filepath.Join(t.TempDir(), "relwatch.cache.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := cachefile.Open(path)
	gt.NoError(t, err)

	marker := store.Get(model.RepoID{Owner: "acme", Name: "widget"})
	gt.Value(t, marker.LastReleaseCommit).Equal("deadbeef")
	gt.Value(t, marker.LastReleaseDate.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))).Equal(true)
}
