// Package githubapi queries the GitHub REST API for merged pull requests.
//
// It is the token-authenticated counterpart of githubcli and is used when the
// gh executable is not installed but a GitHub token is present.
package githubapi
