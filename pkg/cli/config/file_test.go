package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/arseniiv/relwatch/pkg/cli/config"
	"github.com/arseniiv/relwatch/pkg/domain/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relwatch.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
assume_releases_decreasing = false
compare_commits = true
api_token = 'tok-123'
downloads_root = "downloads"
slack_webhook = "https://hooks.slack.com/services/T/B/X"

[group.tools]
folder = "tools"

[[group.tools.repos]]
id = "acme/widget"
matchers = ['\.zip$', '\.sig$']

[[group.tools.repos]]
id = "acme/gadget"
`)

	cfg, err := config.Load(path)
	gt.NoError(t, err)

	gt.Value(t, cfg.AssumeReleasesDecreasing).Equal(false)
	gt.Value(t, cfg.CompareCommits).Equal(true)
	gt.Value(t, cfg.APIToken).Equal("tok-123")
	gt.Value(t, cfg.SlackWebhook).Equal("https://hooks.slack.com/services/T/B/X")
	gt.Value(t, cfg.DownloadsRoot).Equal(filepath.Join(filepath.Dir(path), "downloads"))

	gt.Number(t, len(cfg.Groups)).Equal(1)
	group := cfg.Groups[0]
	gt.Value(t, group.Name).Equal("tools")
	gt.Value(t, group.Folder).Equal("tools")
	gt.Number(t, len(group.Repos)).Equal(2)

	gt.Value(t, group.Repos[0].ID).Equal(model.RepoID{Owner: "acme", Name: "widget"})
	gt.Number(t, len(group.Repos[0].Matchers)).Equal(2)
	gt.Value(t, group.Repos[0].Matchers[0].Pattern).Equal(`\.zip$`)

	// no matchers configured: the catch-all is substituted
	gt.Number(t, len(group.Repos[1].Matchers)).Equal(1)
	gt.Value(t, group.Repos[1].Matchers[0].Pattern).Equal(model.CatchAllPattern)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
api_token = 'tok'

[group.g]
folder = "f"

[[group.g.repos]]
id = "a/b"
`)

	cfg, err := config.Load(path)
	gt.NoError(t, err)
	gt.Value(t, cfg.AssumeReleasesDecreasing).Equal(true)
	gt.Value(t, cfg.CompareCommits).Equal(false)
	gt.Value(t, cfg.SlackWebhook).Equal("")
	gt.Value(t, cfg.DownloadsRoot).Equal(filepath.Dir(path))
}

func TestLoad_GroupsSortedByName(t *testing.T) {
	path := writeConfig(t, `
api_token = 'tok'

[group.zeta]
folder = "z"
repos = []

[group.alpha]
folder = "a"
repos = []
`)

	cfg, err := config.Load(path)
	gt.NoError(t, err)
	gt.Value(t, cfg.GroupNames()).Equal([]string{"alpha", "zeta"})

	g, ok := cfg.Group("zeta")
	gt.Value(t, ok).Equal(true)
	gt.Value(t, g.Folder).Equal("z")

	_, ok = cfg.Group("missing")
	gt.Value(t, ok).Equal(false)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing api token",
			content: "[group.g]\nfolder = 'f'\nrepos = []\n",
		},
		{
			name:    "no groups",
			content: "api_token = 'tok'\n",
		},
		{
			name:    "malformed toml",
			content: "api_token = 'tok\n",
		},
		{
			name: "bad repository id",
			content: `api_token = 'tok'
[group.g]
folder = "f"
[[group.g.repos]]
id = "not-an-id"
`,
		},
		{
			name: "bad matcher regex",
			content: `api_token = 'tok'
[group.g]
folder = "f"
[[group.g.repos]]
id = "a/b"
matchers = ['[']
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			gt.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	gt.Error(t, err)
}

func TestLoad_AbsoluteDownloadsRoot(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, `
api_token = 'tok'
downloads_root = '`+root+`'

[group.g]
folder = "f"
repos = []
`)

	cfg, err := config.Load(path)
	gt.NoError(t, err)
	gt.Value(t, cfg.DownloadsRoot).Equal(root)
}
