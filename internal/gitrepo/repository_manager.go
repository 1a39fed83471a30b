package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/branchsweep/internal/execshell"
)

const (
	gitLSRemoteSubcommandConstant         = "ls-remote"
	gitExitCodeFlagConstant               = "--exit-code"
	gitHeadsFlagConstant                  = "--heads"
	gitHeadsReferencePrefixConstant       = "refs/heads/"
	gitForEachRefSubcommandConstant       = "for-each-ref"
	gitShortReferenceFormatConstant       = "--format=%(refname:short)"
	gitBranchSubcommandConstant           = "branch"
	gitForceDeleteFlagConstant            = "-D"
	gitRemoteSubcommandConstant           = "remote"
	gitGetURLSubcommandConstant           = "get-url"
	gitConfigSubcommandConstant           = "config"
	gitConfigGetFlagConstant              = "--get"
	gitRevParseSubcommandConstant         = "rev-parse"
	gitVerifyFlagConstant                 = "--verify"
	gitQuietFlagConstant                  = "--quiet"
	gitStatusSubcommandConstant           = "status"
	gitPorcelainFlagConstant              = "--porcelain"
	gitFetchSubcommandConstant            = "fetch"
	gitPruneFlagConstant                  = "--prune"
	gitCheckoutSubcommandConstant         = "checkout"
	gitPullSubcommandConstant             = "pull"
	gitFastForwardOnlyFlagConstant        = "--ff-only"
	gitInsideWorkTreeFlagConstant         = "--is-inside-work-tree"
	gitTrueOutputConstant                 = "true"
	lsRemoteAbsentExitCodeConstant        = 2
	configurationMissingExitCodeConstant  = 1
	lineSeparatorConstant                 = "\n"
	referenceFieldSeparatorConstant       = "\t"
	executorNotConfiguredMessageConstant  = "git executor not configured"
	repositoryPathRequiredMessageConstant = "repository path required"
	branchNameRequiredMessageConstant     = "branch name required"
	operationErrorTemplateConstant        = "git %s failed in %s: %v"
)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

var (
	// ErrGitExecutorNotConfigured indicates a nil executor was supplied.
	ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrRepositoryPathRequired indicates an empty repository path.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrBranchNameRequired indicates an empty branch name.
	ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)
)

// OperationError wraps a failed git operation with its repository.
type OperationError struct {
	Operation      string
	RepositoryPath string
	Cause          error
}

// Error describes the failure.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.RepositoryPath, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// RepositoryManager performs branch-level git operations on local repositories.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsRepository reports whether the path is inside a git working tree.
func (manager *RepositoryManager) IsRepository(executionContext context.Context, repositoryPath string) bool {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return false
	}
	result, executionError := manager.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant)
	if executionError != nil {
		return false
	}
	return strings.TrimSpace(result.StandardOutput) == gitTrueOutputConstant
}

// ListLocalBranches returns local branch names in git's enumeration order.
func (manager *RepositoryManager) ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	if len(strings.TrimSpace(repositoryPath)) == 0 {
		return nil, ErrRepositoryPathRequired
	}
	result, executionError := manager.run(executionContext, repositoryPath, gitForEachRefSubcommandConstant, gitShortReferenceFormatConstant, gitHeadsReferencePrefixConstant)
	if executionError != nil {
		return nil, OperationError{Operation: gitForEachRefSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}
	return splitNonEmptyLines(result.StandardOutput), nil
}

// RemoteBranchExists queries the remote for an exact refs/heads/<branch> match.
// An "absent" answer is not an error; unreachable remotes are.
func (manager *RepositoryManager) RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error) {
	if len(strings.TrimSpace(branchName)) == 0 {
		return false, ErrBranchNameRequired
	}
	fullReference := gitHeadsReferencePrefixConstant + branchName
	result, executionError := manager.run(executionContext, repositoryPath, gitLSRemoteSubcommandConstant, gitExitCodeFlagConstant, gitHeadsFlagConstant, remoteName, fullReference)
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) && failedError.Result.ExitCode == lsRemoteAbsentExitCodeConstant {
			return false, nil
		}
		return false, OperationError{Operation: gitLSRemoteSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}

	for _, line := range splitNonEmptyLines(result.StandardOutput) {
		fields := strings.Split(line, referenceFieldSeparatorConstant)
		if len(fields) == 2 && strings.TrimSpace(fields[1]) == fullReference {
			return true, nil
		}
	}
	return false, nil
}

// DeleteLocalBranch force-deletes a local branch.
func (manager *RepositoryManager) DeleteLocalBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if len(strings.TrimSpace(branchName)) == 0 {
		return ErrBranchNameRequired
	}
	if _, executionError := manager.run(executionContext, repositoryPath, gitBranchSubcommandConstant, gitForceDeleteFlagConstant, branchName); executionError != nil {
		return OperationError{Operation: gitBranchSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}
	return nil
}

// GetRemoteURL returns the configured URL for the named remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	result, executionError := manager.run(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, remoteName)
	if executionError != nil {
		return "", OperationError{Operation: gitRemoteSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// GetConfigurationValue reads a git configuration value. Unset keys yield an empty string.
func (manager *RepositoryManager) GetConfigurationValue(executionContext context.Context, repositoryPath string, key string) (string, error) {
	result, executionError := manager.run(executionContext, repositoryPath, gitConfigSubcommandConstant, gitConfigGetFlagConstant, key)
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) && failedError.Result.ExitCode == configurationMissingExitCodeConstant {
			return "", nil
		}
		return "", OperationError{Operation: gitConfigSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// LocalBranchExists reports whether refs/heads/<branch> resolves locally.
func (manager *RepositoryManager) LocalBranchExists(executionContext context.Context, repositoryPath string, branchName string) bool {
	_, executionError := manager.run(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, gitHeadsReferencePrefixConstant+branchName)
	return executionError == nil
}

// IsWorktreeClean reports whether git status shows no pending changes.
func (manager *RepositoryManager) IsWorktreeClean(executionContext context.Context, repositoryPath string) (bool, error) {
	result, executionError := manager.run(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return false, OperationError{Operation: gitStatusSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}
	return len(strings.TrimSpace(result.StandardOutput)) == 0, nil
}

// FetchWithPrune fetches all configured remotes and prunes stale tracking refs.
func (manager *RepositoryManager) FetchWithPrune(executionContext context.Context, repositoryPath string) error {
	if _, executionError := manager.run(executionContext, repositoryPath, gitFetchSubcommandConstant, gitPruneFlagConstant); executionError != nil {
		return OperationError{Operation: gitFetchSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}
	return nil
}

// CheckoutBranch switches the working tree to the branch.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if _, executionError := manager.run(executionContext, repositoryPath, gitCheckoutSubcommandConstant, branchName); executionError != nil {
		return OperationError{Operation: gitCheckoutSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}
	return nil
}

// PullFastForward fast-forwards the current branch from its upstream.
func (manager *RepositoryManager) PullFastForward(executionContext context.Context, repositoryPath string) error {
	if _, executionError := manager.run(executionContext, repositoryPath, gitPullSubcommandConstant, gitFastForwardOnlyFlagConstant); executionError != nil {
		return OperationError{Operation: gitPullSubcommandConstant, RepositoryPath: repositoryPath, Cause: executionError}
	}
	return nil
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
}

func splitNonEmptyLines(output string) []string {
	rawLines := strings.Split(output, lineSeparatorConstant)
	lines := make([]string, 0, len(rawLines))
	for _, rawLine := range rawLines {
		trimmed := strings.TrimSpace(rawLine)
		if len(trimmed) == 0 {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}
