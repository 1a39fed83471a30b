// Package branches implements the merged-branch reconciliation engine behind
// the prune-merged command.
//
// For every local branch the Classifier asks a RemoteExistenceOracle whether
// the branch still exists on the remote and, only when it does not, asks an
// EvidenceResolver for a merged pull request authored by the repository
// identity. The DispositionEngine then lists, force-deletes, or interactively
// deletes the resulting candidates and reports a RunOutcome. Service runs the
// whole pipeline across discovered repositories and CommandBuilder exposes it
// through Cobra.
package branches
