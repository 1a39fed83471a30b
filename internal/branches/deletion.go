package branches

import "context"

// LocalBranchRemover force-deletes local branches.
type LocalBranchRemover interface {
	DeleteLocalBranch(executionContext context.Context, repositoryPath string, branchName string) error
}

// ForceBranchDeleter deletes branches with git branch -D so that branches
// whose commits are unreachable from other local refs are still removed.
type ForceBranchDeleter struct {
	remover LocalBranchRemover
}

// NewForceBranchDeleter constructs a ForceBranchDeleter.
func NewForceBranchDeleter(remover LocalBranchRemover) *ForceBranchDeleter {
	return &ForceBranchDeleter{remover: remover}
}

// Delete implements BranchDeleter.
func (deleter *ForceBranchDeleter) Delete(executionContext context.Context, branch string, repositoryPath string) error {
	return deleter.remover.DeleteLocalBranch(executionContext, repositoryPath, branch)
}
