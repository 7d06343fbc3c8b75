package cachefile

import (
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/arseniiv/relwatch/pkg/domain/interfaces"
	"github.com/arseniiv/relwatch/pkg/domain/model"
)

// entry is one repository's persisted marker
type entry struct {
	LastReleaseCommit string    `toml:"last_release_commit"`
	LastReleaseDate   time.Time `toml:"last_release_date"`
}

// fileRoot is the cache file layout: one table per repository keyed by the
// "owner/name" display form
type fileRoot struct {
	Repos map[string]entry `toml:"repos"`
}

// Store is a TOML-file-backed MarkerStore. It is loaded once at startup
// and rewritten whole on Save; access is single-session by design.
type Store struct {
	path  string
	repos map[string]entry
}

var _ interfaces.MarkerStore = (*Store)(nil)

// Open loads the cache file at path. A missing file yields an empty store;
// a malformed file is an error.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		repos: map[string]entry{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, goerr.Wrap(err, "failed to read seen-state cache", goerr.V("path", path))
	}

	var root fileRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, goerr.Wrap(err, "failed to parse seen-state cache", goerr.V("path", path))
	}
	if root.Repos != nil {
		s.repos = root.Repos
	}

	return s, nil
}

// Get returns the marker for a repository, or the "nothing seen" sentinel
// if absent. It never fails.
func (s *Store) Get(repo model.RepoID) model.SeenMarker {
	e, ok := s.repos[repo.String()]
	if !ok {
		return model.NothingSeen()
	}
	return model.SeenMarker{
		LastReleaseDate:   e.LastReleaseDate,
		LastReleaseCommit: e.LastReleaseCommit,
	}
}

// Update records a new marker for a repository in memory
func (s *Store) Update(repo model.RepoID, marker model.SeenMarker) {
	s.repos[repo.String()] = entry{
		LastReleaseCommit: marker.LastReleaseCommit,
		LastReleaseDate:   marker.LastReleaseDate,
	}
}

// Save writes the markers back to the cache file. The file is written to a
// temporary sibling and renamed into place so a failed write never leaves
// a truncated cache.
func (s *Store) Save() error {
	data, err := toml.Marshal(fileRoot{Repos: s.repos})
	if err != nil {
		return goerr.Wrap(err, "failed to encode seen-state cache")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create cache directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, ".relwatch-cache-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary cache file", goerr.V("dir", dir))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to write seen-state cache", goerr.V("path", tmpPath))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to close temporary cache file", goerr.V("path", tmpPath))
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return goerr.Wrap(err, "failed to replace seen-state cache", goerr.V("path", s.path))
	}

	return nil
}
