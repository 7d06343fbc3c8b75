package model

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/m-mizutani/goerr/v2"

	"github.com/arseniiv/relwatch/pkg/domain/types"
)

// CatchAllPattern matches any asset name. It is substituted when a
// repository is configured without matchers.
const CatchAllPattern = `.+`

// RepoID identifies a repository by owner and name. Neither component
// contains a slash.
type RepoID struct {
	Owner string
	Name  string
}

// ParseRepoID parses an "owner/name" identity string.
func ParseRepoID(s string) (RepoID, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoID{}, goerr.New("repository id must be of form \"owner/name\"",
			goerr.V("id", s), goerr.T(types.ErrTagConfig))
	}
	return RepoID{Owner: parts[0], Name: parts[1]}, nil
}

// String returns the "owner/name" display form
func (r RepoID) String() string {
	return r.Owner + "/" + r.Name
}

// Matcher is a compiled asset name pattern. The original pattern string is
// kept as the stable bucket label. Go's RE2 engine treats \d, \w and \s as
// ASCII classes, so classification does not depend on the host locale.
type Matcher struct {
	Pattern string
	re      *regexp.Regexp
}

// NewMatcher compiles a matcher from its pattern string
func NewMatcher(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Matcher{}, goerr.Wrap(err, "invalid matcher pattern",
			goerr.V("pattern", pattern), goerr.T(types.ErrTagConfig))
	}
	return Matcher{Pattern: pattern, re: re}, nil
}

// Match reports whether the pattern is found anywhere in the asset name
// (search semantics, not a full match).
func (m Matcher) Match(assetName string) bool {
	return m.re.MatchString(assetName)
}

// CompileMatchers compiles the configured pattern list. An empty list
// yields the single catch-all matcher.
func CompileMatchers(patterns []string) ([]Matcher, error) {
	if len(patterns) == 0 {
		patterns = []string{CatchAllPattern}
	}
	matchers := make([]Matcher, 0, len(patterns))
	for _, p := range patterns {
		m, err := NewMatcher(p)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// RepoSpec is a tracked repository: its identity plus the ordered matcher
// list used to classify release assets. Immutable after configuration load.
type RepoSpec struct {
	ID       RepoID
	Matchers []Matcher
}

// GroupSpec is a named set of repositories sharing a download folder
type GroupSpec struct {
	Name   string
	Folder string
	Repos  []RepoSpec
}

// NewGroupSpec validates the group name (no whitespace, non-empty)
func NewGroupSpec(name, folder string, repos []RepoSpec) (GroupSpec, error) {
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return GroupSpec{}, goerr.New("group name must be non-empty and contain no whitespace",
			goerr.V("name", name), goerr.T(types.ErrTagConfig))
	}
	return GroupSpec{Name: name, Folder: folder, Repos: repos}, nil
}
