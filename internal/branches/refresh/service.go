package refresh

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	worktreeNotCleanMessageConstant         = "repository worktree is not clean"
	mainBranchMissingMessageConstant        = "neither main nor master exists locally"
	cleanVerificationErrorTemplateConstant  = "failed to verify clean worktree: %w"
	gitFetchFailureTemplateConstant         = "failed to fetch updates: %w"
	gitCheckoutFailureTemplateConstant      = "failed to checkout branch %q: %w"
	gitPullFailureTemplateConstant          = "failed to pull latest changes: %w"
	updateErrorTemplateConstant             = "%s: %v"
	mainBranchNameConstant                  = "main"
	masterBranchNameConstant                = "master"
	repositoryUpdatedMessageConstant        = "Updated main branch"
	repositoryUpdateFailedMessageConstant   = "Skipping repository"
	runCancelledMessageConstant             = "Run cancelled; remaining repositories not processed"
	logFieldRepositoryConstant              = "repository"
	logFieldBranchConstant                  = "branch"
)

var mainBranchPreference = []string{mainBranchNameConstant, masterBranchNameConstant}

var (
	// ErrRepositoryPathRequired indicates an empty repository path.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
	ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)
	// ErrWorktreeNotClean indicates the repository contains uncommitted changes.
	ErrWorktreeNotClean = errors.New(worktreeNotCleanMessageConstant)
	// ErrMainBranchMissing indicates the repository has neither a main nor a master branch.
	ErrMainBranchMissing = errors.New(mainBranchMissingMessageConstant)
)

// RepositoryManager is the subset of gitrepo.RepositoryManager used for main branch updates.
type RepositoryManager interface {
	LocalBranchExists(executionContext context.Context, repositoryPath string, branchName string) bool
	IsWorktreeClean(executionContext context.Context, repositoryPath string) (bool, error)
	FetchWithPrune(executionContext context.Context, repositoryPath string) error
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	PullFastForward(executionContext context.Context, repositoryPath string) error
}

// Dependencies enumerates external collaborators required for main branch updates.
type Dependencies struct {
	RepositoryManager RepositoryManager
	Logger            *zap.Logger
}

// Options configures a main branch update.
type Options struct {
	RequireClean bool
}

// Result captures the branch updated in one repository.
type Result struct {
	RepositoryPath string
	BranchName     string
}

// UpdateError records why a repository was not updated.
type UpdateError struct {
	RepositoryPath string
	Cause          error
}

// Error describes the failed update.
func (updateError UpdateError) Error() string {
	return fmt.Sprintf(updateErrorTemplateConstant, updateError.RepositoryPath, updateError.Cause)
}

// Unwrap exposes the underlying cause.
func (updateError UpdateError) Unwrap() error {
	return updateError.Cause
}

// Summary aggregates a multi-repository update.
type Summary struct {
	Updated  []Result
	Failures []UpdateError
}

// AllRepositoriesFailed reports whether at least one repository was attempted and none succeeded.
func (summary Summary) AllRepositoriesFailed() bool {
	return len(summary.Updated) == 0 && len(summary.Failures) > 0
}

// Service fast-forwards the main branch of local repositories.
type Service struct {
	repositoryManager RepositoryManager
	logger            *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repositoryManager: dependencies.RepositoryManager, logger: logger}, nil
}

// Run updates every repository in order. A failing repository is logged and skipped.
func (service *Service) Run(executionContext context.Context, repositoryPaths []string, options Options) Summary {
	summary := Summary{Updated: make([]Result, 0, len(repositoryPaths)), Failures: make([]UpdateError, 0)}

	for _, repositoryPath := range repositoryPaths {
		if executionContext.Err() != nil {
			service.logger.Warn(runCancelledMessageConstant, zap.Error(executionContext.Err()))
			break
		}

		result, updateError := service.UpdateRepository(executionContext, repositoryPath, options)
		if updateError != nil {
			service.logger.Warn(repositoryUpdateFailedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.Error(updateError),
			)
			summary.Failures = append(summary.Failures, UpdateError{RepositoryPath: repositoryPath, Cause: updateError})
			continue
		}

		service.logger.Info(repositoryUpdatedMessageConstant,
			zap.String(logFieldRepositoryConstant, result.RepositoryPath),
			zap.String(logFieldBranchConstant, result.BranchName),
		)
		summary.Updated = append(summary.Updated, result)
	}

	return summary
}

// UpdateRepository checks out the local main (or master) branch and fast-forwards it.
func (service *Service) UpdateRepository(executionContext context.Context, repositoryPath string, options Options) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	branchName, branchFound := service.detectMainBranch(executionContext, trimmedRepositoryPath)
	if !branchFound {
		return Result{}, ErrMainBranchMissing
	}

	if options.RequireClean {
		clean, cleanError := service.repositoryManager.IsWorktreeClean(executionContext, trimmedRepositoryPath)
		if cleanError != nil {
			return Result{}, fmt.Errorf(cleanVerificationErrorTemplateConstant, cleanError)
		}
		if !clean {
			return Result{}, ErrWorktreeNotClean
		}
	}

	if fetchError := service.repositoryManager.FetchWithPrune(executionContext, trimmedRepositoryPath); fetchError != nil {
		return Result{}, fmt.Errorf(gitFetchFailureTemplateConstant, fetchError)
	}

	if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, trimmedRepositoryPath, branchName); checkoutError != nil {
		return Result{}, fmt.Errorf(gitCheckoutFailureTemplateConstant, branchName, checkoutError)
	}

	if pullError := service.repositoryManager.PullFastForward(executionContext, trimmedRepositoryPath); pullError != nil {
		return Result{}, fmt.Errorf(gitPullFailureTemplateConstant, pullError)
	}

	return Result{RepositoryPath: trimmedRepositoryPath, BranchName: branchName}, nil
}

func (service *Service) detectMainBranch(executionContext context.Context, repositoryPath string) (string, bool) {
	for _, candidate := range mainBranchPreference {
		if service.repositoryManager.LocalBranchExists(executionContext, repositoryPath, candidate) {
			return candidate, true
		}
	}
	return "", false
}
