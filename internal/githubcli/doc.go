// Package githubcli wraps the GitHub CLI for branchsweep.
//
// The client issues gh pr list and gh api calls through execshell, decodes
// their JSON output into typed values, and reports failures as typed errors
// so callers can distinguish command failures from malformed responses.
package githubcli
