package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/arseniiv/relwatch/pkg/domain/model"
	"github.com/arseniiv/relwatch/pkg/domain/types"
)

// fileRepo is one [[group.X.repos]] entry
type fileRepo struct {
	ID       string   `toml:"id"`
	Matchers []string `toml:"matchers"`
}

// fileGroup is one [group.X] table
type fileGroup struct {
	Folder string     `toml:"folder"`
	Repos  []fileRepo `toml:"repos"`
}

// fileRoot is the raw configuration file layout
type fileRoot struct {
	AssumeReleasesDecreasing *bool                `toml:"assume_releases_decreasing"`
	CompareCommits           *bool                `toml:"compare_commits"`
	APIToken                 string               `toml:"api_token"`
	DownloadsRoot            string               `toml:"downloads_root"`
	SlackWebhook             string               `toml:"slack_webhook"`
	Group                    map[string]fileGroup `toml:"group"`
}

// File is the validated configuration: compiled matchers, resolved paths,
// defaults applied. Immutable after Load.
type File struct {
	AssumeReleasesDecreasing bool
	CompareCommits           bool
	APIToken                 string
	DownloadsRoot            string
	SlackWebhook             string
	Groups                   []model.GroupSpec
}

// Load reads and validates the TOML configuration at path. Relative
// downloads_root is resolved against the configuration file's directory.
// Any validation failure is fatal to startup.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read configuration file",
			goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}

	var raw fileRoot
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse configuration file",
			goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}

	if strings.TrimSpace(raw.APIToken) == "" {
		return nil, goerr.New("api_token is required",
			goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}
	if len(raw.Group) == 0 {
		return nil, goerr.New("at least one [group.NAME] must be configured",
			goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}

	cfg := &File{
		AssumeReleasesDecreasing: true,
		CompareCommits:           false,
		APIToken:                 raw.APIToken,
		SlackWebhook:             raw.SlackWebhook,
	}
	if raw.AssumeReleasesDecreasing != nil {
		cfg.AssumeReleasesDecreasing = *raw.AssumeReleasesDecreasing
	}
	if raw.CompareCommits != nil {
		cfg.CompareCommits = *raw.CompareCommits
	}

	root := raw.DownloadsRoot
	if !filepath.IsAbs(root) {
		root = filepath.Join(filepath.Dir(path), root)
	}
	cfg.DownloadsRoot = filepath.Clean(root)

	// TOML tables carry no order; groups are kept name-sorted so runs are
	// deterministic.
	names := make([]string, 0, len(raw.Group))
	for name := range raw.Group {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		g := raw.Group[name]
		repos := make([]model.RepoSpec, 0, len(g.Repos))
		for _, r := range g.Repos {
			id, err := model.ParseRepoID(r.ID)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid repository in group", goerr.V("group", name))
			}
			matchers, err := model.CompileMatchers(r.Matchers)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid matcher in group",
					goerr.V("group", name), goerr.V("repo", r.ID))
			}
			repos = append(repos, model.RepoSpec{ID: id, Matchers: matchers})
		}

		group, err := model.NewGroupSpec(name, g.Folder, repos)
		if err != nil {
			return nil, err
		}
		cfg.Groups = append(cfg.Groups, group)
	}

	return cfg, nil
}

// Group returns the group with the given name
func (c *File) Group(name string) (model.GroupSpec, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return model.GroupSpec{}, false
}

// GroupNames returns the configured group names in order
func (c *File) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for _, g := range c.Groups {
		names = append(names, g.Name)
	}
	return names
}
