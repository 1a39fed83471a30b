// Package gitrepo wraps the git plumbing used by branchsweep.
//
// RepositoryManager lists local branches, checks remote branches and deletes
// branches through an injected git executor. ParseRemoteURL turns origin URLs
// into owner/name identifiers for the code-review lookups.
package gitrepo
