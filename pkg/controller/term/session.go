package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/arseniiv/relwatch/pkg/domain/interfaces"
	"github.com/arseniiv/relwatch/pkg/domain/model"
	"github.com/arseniiv/relwatch/pkg/domain/types"
	"github.com/arseniiv/relwatch/pkg/utils/async"
)

const maxBodyLen = 80

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	noteColor   = color.New(color.FgYellow)
	lineBreaks  = regexp.MustCompile(`[\r\n]+`)
)

// Session drives one run over the configured repository groups: it shows
// new releases, lets the user (or auto mode) pick one to acknowledge, and
// downloads the selected assets.
type Session struct {
	uc            interfaces.WatchUseCase
	notifier      interfaces.Notifier
	in            *bufio.Scanner
	out           io.Writer
	downloadsRoot string
	auto          bool
}

// Option configures a Session
type Option func(*Session)

// WithInput overrides the prompt input (default os.Stdin)
func WithInput(r io.Reader) Option {
	return func(s *Session) { s.in = bufio.NewScanner(r) }
}

// WithOutput overrides the display output (default os.Stdout)
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithNotifier attaches a notifier for new-release summaries
func WithNotifier(n interfaces.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithAuto switches the session to non-interactive mode: the newest
// release per repository is acknowledged and all matched assets are
// downloaded without prompting.
func WithAuto(auto bool) Option {
	return func(s *Session) { s.auto = auto }
}

// New creates a Session
func New(uc interfaces.WatchUseCase, downloadsRoot string, options ...Option) *Session {
	s := &Session{
		uc:            uc,
		in:            bufio.NewScanner(os.Stdin),
		out:           os.Stdout,
		downloadsRoot: downloadsRoot,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Run processes the given groups. In interactive mode the user picks a
// subset first. One repository's failure is reported and does not abort
// the rest of the batch; a summary error is returned at the end if any
// repository failed.
func (s *Session) Run(ctx context.Context, groups []model.GroupSpec) error {
	if !s.auto {
		groups = s.pickGroups(groups)
	}
	if len(groups) == 0 {
		fmt.Fprintln(s.out, "Nothing selected. Bye!")
		return nil
	}

	var failed int
	for _, group := range groups {
		for _, repo := range group.Repos {
			if err := s.processRepo(ctx, group, repo); err != nil {
				failed++
				if goerr.HasTag(err, types.ErrTagRepoNotFound) {
					noteColor.Fprintf(s.out, "  [repository unavailable: %s]\n", repo.ID)
				} else {
					ctxlog.From(ctx).Error("repository processing failed",
						"repo", repo.ID.String(), "error", err)
				}
			}
			fmt.Fprintln(s.out)
		}
	}

	if failed > 0 {
		return goerr.New("some repositories failed", goerr.V("count", failed))
	}
	return nil
}

// pickGroups asks the user which groups to search in. Empty input selects
// nothing, "*" selects everything.
func (s *Session) pickGroups(groups []model.GroupSpec) []model.GroupSpec {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	fmt.Fprintf(s.out, "Groups to search in:\n  %s\n", strings.Join(names, " "))

	for {
		answer := strings.TrimSpace(s.prompt("Pick some (space-delimited) or * (all): "))
		picked := strings.Fields(answer)
		if len(picked) == 0 {
			return nil
		}
		if len(picked) == 1 && picked[0] == "*" {
			return groups
		}

		valid := true
		chosen := make(map[string]bool, len(picked))
		for _, name := range picked {
			if !slices.Contains(names, name) {
				noteColor.Fprintf(s.out, "[unknown group: %s]\n", name)
				valid = false
			}
			chosen[name] = true
		}
		if !valid {
			continue
		}

		var out []model.GroupSpec
		for _, g := range groups {
			if chosen[g.Name] {
				out = append(out, g)
			}
		}
		return out
	}
}

func (s *Session) processRepo(ctx context.Context, group model.GroupSpec, repo model.RepoSpec) error {
	headerColor.Fprintf(s.out, "******* %s / %s\n", repo.ID.Owner, repo.ID.Name)

	releases, err := s.uc.NewReleases(ctx, repo)
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Fprintln(s.out, "  no newer releases found!")
		return nil
	}
	fmt.Fprintf(s.out, "  newer releases: %d\n", len(releases))

	if s.notifier != nil {
		notifier, repoID := s.notifier, repo.ID
		async.Dispatch(ctx, "notify-new-releases", func(ctx context.Context) error {
			return notifier.NotifyNewReleases(ctx, repoID, releases)
		})
	}

	chosen, ok := s.chooseRelease(releases)
	if !ok {
		return nil
	}

	if err := s.uc.Acknowledge(ctx, chosen); err != nil {
		return err
	}

	collision := false
	for _, b := range chosen.Buckets {
		if len(b.Assets) > 1 {
			collision = true
		}
	}
	if collision {
		noteColor.Fprintln(s.out, "[some matchers had multiple matches, beware!!]")
	} else if !s.auto {
		fmt.Fprintln(s.out, "[each matcher matched <= 1 assets, ok to *]")
	}

	var assets []model.Asset
	if s.auto {
		assets = chosen.MatchedAssets()
	} else {
		assets = s.askAssets(chosen)
	}
	if len(assets) == 0 {
		return nil
	}

	destDir := filepath.Join(s.downloadsRoot, group.Folder)
	for _, asset := range assets {
		fmt.Fprintf(s.out, "Downloading %s (%s)...", asset.Name, humanSize(asset.Size))
		path, err := s.uc.DownloadAsset(ctx, repo.ID, asset, destDir)
		if err != nil {
			fmt.Fprintln(s.out, " [failed]")
			return err
		}
		fmt.Fprintln(s.out, " [done]")
		ctxlog.From(ctx).Debug("downloaded asset", "path", path)
	}
	return nil
}

// chooseRelease shows the releases and returns the one to acknowledge. In
// auto mode that is the newest one; interactively the user pages through
// the list and picks an index, or declines.
func (s *Session) chooseRelease(releases []model.ClassifiedRelease) (model.ClassifiedRelease, bool) {
	if s.auto {
		s.printRelease(1, releases[0])
		return releases[0], true
	}

	for i, rel := range releases {
		s.printRelease(i+1, rel)
		if i == len(releases)-1 {
			fmt.Fprintln(s.out, "  ===== no more releases =====")
			break
		}
		answer := strings.ToLower(strings.TrimSpace(s.prompt("Show more releases? [y/N] ")))
		if answer != "y" {
			break
		}
	}

	idx, ok := s.askIndex("Choose a release index to download and remember? [or N] ", len(releases), true)
	if !ok {
		return model.ClassifiedRelease{}, false
	}
	return releases[idx-1], true
}

func (s *Session) printRelease(idx int, rel model.ClassifiedRelease) {
	fmt.Fprintf(s.out, "    [%d] %s  %s\n", idx,
		rel.LastModified.Format("2006-01-02 15:04:05"), rel.Raw.Name)
	fmt.Fprintf(s.out, "      tag:%s pre:%v\n", rel.Raw.TagName, rel.Raw.Prerelease)
	fmt.Fprintf(s.out, "      %q\n", oneLineBody(rel.Raw.Body))

	fmt.Fprintln(s.out, "      Assets matched:")
	assetIdx := 1
	for _, bucket := range rel.Buckets {
		fmt.Fprintf(s.out, "      for `%s`:", bucket.Pattern)
		switch {
		case len(bucket.Assets) == 0:
			fmt.Fprintln(s.out, " NOTHING")
		case len(bucket.Assets) == 1:
			fmt.Fprintf(s.out, "\n        [%d] %q\n", assetIdx, bucket.Assets[0].Name)
			assetIdx++
		default:
			noteColor.Fprintln(s.out, " COLLISION")
			for _, asset := range bucket.Assets {
				fmt.Fprintf(s.out, "        [%d] %q\n", assetIdx, asset.Name)
				assetIdx++
			}
		}
	}
}

// askAssets asks which matched assets to download. Empty input declines,
// "*" takes everything. Indices refer to the flattened bucket order shown
// by printRelease.
func (s *Session) askAssets(rel model.ClassifiedRelease) []model.Asset {
	flat := rel.MatchedAssets()
	for {
		answer := strings.TrimSpace(s.prompt("Enter asset indices to download, or * for everything: "))
		if answer == "" {
			fmt.Fprintln(s.out, "[alright, no downloads]")
			return nil
		}
		if answer == "*" {
			return flat
		}

		pieces := strings.Fields(answer)
		picked := make([]model.Asset, 0, len(pieces))
		valid := true
		for _, piece := range pieces {
			n, err := strconv.Atoi(piece)
			if err != nil || n < 1 || n > len(flat) {
				noteColor.Fprintf(s.out, "[some indices aren't in 1..%d]\n", len(flat))
				valid = false
				break
			}
			picked = append(picked, flat[n-1])
		}
		if valid {
			return picked
		}
	}
}

// askIndex prompts for an integer in 1..max. When allowNone is set, empty
// input or "n" declines.
func (s *Session) askIndex(prompt string, max int, allowNone bool) (int, bool) {
	for {
		answer := strings.ToLower(strings.TrimSpace(s.prompt(prompt)))
		if allowNone && (answer == "" || answer == "n") {
			return 0, false
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= max {
			return n, true
		}
		noteColor.Fprintf(s.out, "[not an integer in 1..%d]\n", max)
	}
}

// prompt prints the prompt and reads one line. EOF reads as empty input.
func (s *Session) prompt(text string) string {
	fmt.Fprint(s.out, text)
	if !s.in.Scan() {
		return ""
	}
	return s.in.Text()
}

func oneLineBody(body string) string {
	body = lineBreaks.ReplaceAllString(body, " ")
	if runes := []rune(body); len(runes) > maxBodyLen {
		body = string(runes[:maxBodyLen-1]) + "…"
	}
	return body
}

func humanSize(n int64) string {
	size, unit := float64(n), "B"
	for _, u := range []string{"KiB", "MiB", "GiB", "TiB"} {
		if size <= 1000 {
			break
		}
		size /= 1024
		unit = u
	}
	return fmt.Sprintf("%.4g %s", size, unit)
}
