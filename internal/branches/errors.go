package branches

import (
	"errors"
	"fmt"
)

const (
	identityNotConfiguredMessageConstant  = "no author identity configured"
	remoteNotConfiguredMessageConstant    = "remote not configured"
	repositoryPathInvalidMessageConstant  = "path is not a git repository"
	preconditionErrorTemplateConstant     = "%s: %v"
	branchResolutionErrorTemplateConstant = "branch %s: %v"
	failedDeletionErrorTemplateConstant   = "delete %s: %v"
)

var (
	// ErrIdentityNotConfigured indicates no author identity could be resolved for a repository.
	ErrIdentityNotConfigured = errors.New(identityNotConfiguredMessageConstant)
	// ErrRemoteNotConfigured indicates the repository lacks the configured remote.
	ErrRemoteNotConfigured = errors.New(remoteNotConfiguredMessageConstant)
	// ErrRepositoryPathInvalid indicates the path is not a git working copy.
	ErrRepositoryPathInvalid = errors.New(repositoryPathInvalidMessageConstant)
)

// PreconditionError excludes a whole repository from the run.
type PreconditionError struct {
	RepositoryPath string
	Cause          error
}

// Error describes the precondition failure.
func (preconditionError PreconditionError) Error() string {
	return fmt.Sprintf(preconditionErrorTemplateConstant, preconditionError.RepositoryPath, preconditionError.Cause)
}

// Unwrap exposes the failed precondition.
func (preconditionError PreconditionError) Unwrap() error {
	return preconditionError.Cause
}

// BranchResolutionError records why evidence for one branch could not be resolved.
type BranchResolutionError struct {
	Branch string
	Cause  error
}

// Error describes the resolution failure.
func (resolutionError BranchResolutionError) Error() string {
	return fmt.Sprintf(branchResolutionErrorTemplateConstant, resolutionError.Branch, resolutionError.Cause)
}

// Unwrap exposes the underlying cause.
func (resolutionError BranchResolutionError) Unwrap() error {
	return resolutionError.Cause
}

// FailedDeletion records a candidate whose deletion failed.
type FailedDeletion struct {
	Branch string
	Cause  error
}

// Error describes the deletion failure.
func (failedDeletion FailedDeletion) Error() string {
	return fmt.Sprintf(failedDeletionErrorTemplateConstant, failedDeletion.Branch, failedDeletion.Cause)
}

// Unwrap exposes the underlying cause.
func (failedDeletion FailedDeletion) Unwrap() error {
	return failedDeletion.Cause
}
