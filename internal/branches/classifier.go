package branches

import (
	"context"

	"go.uber.org/zap"
)

const (
	branchRetainedMessageConstant   = "Branch retained"
	branchCandidateMessageConstant  = "Branch selected for deletion"
	branchResolutionMessageConstant = "Merge evidence resolution failed"
	logFieldReasonConstant          = "reason"
	logFieldPullRequestURLConstant  = "pull_request_url"
)

// Classifier partitions branches into candidates and retained branches.
type Classifier struct {
	oracle   RemoteExistenceOracle
	resolver EvidenceResolver
	logger   *zap.Logger
}

// NewClassifier constructs a Classifier.
func NewClassifier(oracle RemoteExistenceOracle, resolver EvidenceResolver, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{oracle: oracle, resolver: resolver, logger: logger}
}

// Classify visits branches in order. A branch present on the remote is retained
// without consulting the resolver; a branch absent from the remote becomes a
// candidate only when the resolver returns evidence. Resolver errors are
// collected and never stop the remaining branches.
func (classifier *Classifier) Classify(executionContext context.Context, branches []string, repositoryPath string, identity string) Classification {
	classification := Classification{
		Candidates: make([]Candidate, 0),
		Retained:   make([]RetainedBranch, 0),
		Errors:     make([]BranchResolutionError, 0),
	}

	for _, branch := range branches {
		if classifier.oracle.Exists(executionContext, branch, repositoryPath) {
			classification.Retained = append(classification.Retained, classifier.retain(repositoryPath, branch, RetentionReasonPresentOnRemote))
			continue
		}

		evidence, resolveError := classifier.resolver.Resolve(executionContext, branch, repositoryPath, identity)
		if resolveError != nil {
			classifier.logger.Warn(branchResolutionMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.String(logFieldBranchConstant, branch),
				zap.Error(resolveError),
			)
			classification.Errors = append(classification.Errors, BranchResolutionError{Branch: branch, Cause: resolveError})
			classification.Retained = append(classification.Retained, classifier.retain(repositoryPath, branch, RetentionReasonResolutionError))
			continue
		}
		if evidence == nil {
			classification.Retained = append(classification.Retained, classifier.retain(repositoryPath, branch, RetentionReasonUnmergedOrDifferentAuthor))
			continue
		}

		classifier.logger.Debug(branchCandidateMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldBranchConstant, branch),
			zap.String(logFieldPullRequestURLConstant, evidence.URL),
		)
		classification.Candidates = append(classification.Candidates, Candidate{Branch: branch, Evidence: *evidence})
	}

	return classification
}

func (classifier *Classifier) retain(repositoryPath string, branch string, reason RetentionReason) RetainedBranch {
	classifier.logger.Debug(branchRetainedMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryPath),
		zap.String(logFieldBranchConstant, branch),
		zap.String(logFieldReasonConstant, string(reason)),
	)
	return RetainedBranch{Branch: branch, Reason: reason}
}
