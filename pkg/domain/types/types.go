package types

import "github.com/m-mizutani/goerr/v2"

// AppName is the application name used in command help and user agents
const AppName = "relwatch"

// Version is the application version, overridden at build time via ldflags
var Version = "dev"

// Error tags for classifying failures across package boundaries
var (
	// ErrTagConfig marks configuration errors detected at startup
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagRepoNotFound marks a repository the source adapter cannot resolve
	ErrTagRepoNotFound = goerr.NewTag("repo_not_found")
)
