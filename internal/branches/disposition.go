package branches

import (
	"context"

	"go.uber.org/zap"
)

const (
	branchDeletedMessageConstant        = "Deleted branch"
	branchDeletionFailedMessageConstant = "Branch deletion failed"
	branchDeclinedMessageConstant       = "Branch kept by operator"
	remainingSkippedMessageConstant     = "Skipping remaining candidates"
	promptFailedMessageConstant         = "Prompt failed; skipping remaining candidates"
	logFieldSkippedCountConstant        = "skipped"
)

// DispositionEngine carries out the deletion policy for a candidate list.
type DispositionEngine struct {
	deleter BranchDeleter
	asker   Asker
	logger  *zap.Logger
}

// NewDispositionEngine constructs a DispositionEngine. The asker is only
// consulted in interactive mode.
func NewDispositionEngine(deleter BranchDeleter, asker Asker, logger *zap.Logger) *DispositionEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispositionEngine{deleter: deleter, asker: asker, logger: logger}
}

// Dispose applies mode to the candidates in order.
//
// List mode never deletes and reports every candidate as unacted. Force mode
// attempts every candidate and keeps going after failures. Interactive mode
// asks once per candidate: confirm deletes, decline moves on without counting,
// and skip-all stops the loop and counts the unvisited candidates, including
// the current one, as skipped.
func (engine *DispositionEngine) Dispose(executionContext context.Context, candidates []Candidate, mode Mode, repositoryPath string) RunOutcome {
	outcome := RunOutcome{
		RepositoryPath:  repositoryPath,
		Mode:            mode,
		DeletedBranches: make([]string, 0),
		FailedDeletions: make([]FailedDeletion, 0),
		Unacted:         make([]Candidate, 0),
	}

	switch mode {
	case ModeForce:
		for _, candidate := range candidates {
			engine.delete(executionContext, candidate, repositoryPath, &outcome)
		}
	case ModeInteractive:
		engine.disposeInteractively(executionContext, candidates, repositoryPath, &outcome)
	default:
		outcome.Unacted = append(outcome.Unacted, candidates...)
	}

	return outcome
}

func (engine *DispositionEngine) disposeInteractively(executionContext context.Context, candidates []Candidate, repositoryPath string, outcome *RunOutcome) {
	for index, candidate := range candidates {
		if engine.asker == nil {
			outcome.Skipped = len(candidates) - index
			return
		}

		response, askError := engine.asker.Ask(executionContext, candidate)
		if askError != nil {
			engine.logger.Warn(promptFailedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.String(logFieldBranchConstant, candidate.Branch),
				zap.Error(askError),
			)
			response = ResponseSkipAll
		}

		switch response {
		case ResponseConfirm:
			engine.delete(executionContext, candidate, repositoryPath, outcome)
		case ResponseSkipAll:
			outcome.Skipped = len(candidates) - index
			engine.logger.Info(remainingSkippedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.Int(logFieldSkippedCountConstant, outcome.Skipped),
			)
			return
		default:
			engine.logger.Debug(branchDeclinedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.String(logFieldBranchConstant, candidate.Branch),
			)
		}
	}
}

func (engine *DispositionEngine) delete(executionContext context.Context, candidate Candidate, repositoryPath string, outcome *RunOutcome) {
	deleteError := engine.deleter.Delete(executionContext, candidate.Branch, repositoryPath)
	if deleteError != nil {
		outcome.Failed++
		outcome.FailedDeletions = append(outcome.FailedDeletions, FailedDeletion{Branch: candidate.Branch, Cause: deleteError})
		engine.logger.Warn(branchDeletionFailedMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldBranchConstant, candidate.Branch),
			zap.Error(deleteError),
		)
		return
	}

	outcome.Deleted++
	outcome.DeletedBranches = append(outcome.DeletedBranches, candidate.Branch)
	engine.logger.Info(branchDeletedMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryPath),
		zap.String(logFieldBranchConstant, candidate.Branch),
		zap.String(logFieldPullRequestURLConstant, candidate.Evidence.URL),
	)
}
