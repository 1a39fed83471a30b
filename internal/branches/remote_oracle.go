package branches

import (
	"context"

	"go.uber.org/zap"
)

const (
	remoteUnreachableMessageConstant = "Remote branch lookup failed; treating branches as absent from the remote"
	logFieldRepositoryConstant       = "repository"
	logFieldRemoteConstant           = "remote"
	logFieldBranchConstant           = "branch"
)

// RemoteBranchChecker checks a single remote branch.
type RemoteBranchChecker interface {
	RemoteBranchExists(executionContext context.Context, repositoryPath string, remoteName string, branchName string) (bool, error)
}

// RemoteOracle answers existence queries against one named remote. A lookup
// failure counts as absent and is logged once per repository.
type RemoteOracle struct {
	checker      RemoteBranchChecker
	remoteName   string
	logger       *zap.Logger
	warnedByPath map[string]struct{}
}

// NewRemoteOracle constructs a RemoteOracle.
func NewRemoteOracle(checker RemoteBranchChecker, remoteName string, logger *zap.Logger) *RemoteOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteOracle{
		checker:      checker,
		remoteName:   remoteName,
		logger:       logger,
		warnedByPath: make(map[string]struct{}),
	}
}

// Exists implements RemoteExistenceOracle.
func (oracle *RemoteOracle) Exists(executionContext context.Context, branch string, repositoryPath string) bool {
	exists, existenceError := oracle.checker.RemoteBranchExists(executionContext, repositoryPath, oracle.remoteName, branch)
	if existenceError == nil {
		return exists
	}

	if _, warned := oracle.warnedByPath[repositoryPath]; !warned {
		oracle.warnedByPath[repositoryPath] = struct{}{}
		oracle.logger.Warn(remoteUnreachableMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldRemoteConstant, oracle.remoteName),
			zap.String(logFieldBranchConstant, branch),
			zap.Error(existenceError),
		)
	}
	return false
}
