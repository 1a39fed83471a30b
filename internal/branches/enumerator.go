package branches

import (
	"context"
	"strings"
)

// Default protected branch names.
const (
	ProtectedBranchMain   = "main"
	ProtectedBranchMaster = "master"
)

// LocalBranchLister lists local branch names in enumeration order.
type LocalBranchLister interface {
	ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error)
}

// LocalBranchEnumerator lists local branches minus the protected names.
// Protection is an exact, case-sensitive name match.
type LocalBranchEnumerator struct {
	lister    LocalBranchLister
	protected map[string]struct{}
}

// NewLocalBranchEnumerator constructs an enumerator that always protects main
// and master in addition to the supplied names.
func NewLocalBranchEnumerator(lister LocalBranchLister, protectedBranches []string) *LocalBranchEnumerator {
	protected := map[string]struct{}{
		ProtectedBranchMain:   {},
		ProtectedBranchMaster: {},
	}
	for _, name := range protectedBranches {
		trimmed := strings.TrimSpace(name)
		if len(trimmed) == 0 {
			continue
		}
		protected[trimmed] = struct{}{}
	}
	return &LocalBranchEnumerator{lister: lister, protected: protected}
}

// ListBranches implements BranchEnumerator.
func (enumerator *LocalBranchEnumerator) ListBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	localBranches, listError := enumerator.lister.ListLocalBranches(executionContext, repositoryPath)
	if listError != nil {
		return nil, listError
	}

	eligible := make([]string, 0, len(localBranches))
	for _, branch := range localBranches {
		if _, isProtected := enumerator.protected[branch]; isProtected {
			continue
		}
		eligible = append(eligible, branch)
	}
	return eligible, nil
}
