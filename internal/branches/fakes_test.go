package branches_test

import (
	"context"
	"errors"
	"strconv"

	"github.com/temirov/branchsweep/internal/branches"
)

type recordingOracle struct {
	present map[string]bool
	calls   []string
}

func (oracle *recordingOracle) Exists(_ context.Context, branch string, _ string) bool {
	oracle.calls = append(oracle.calls, branch)
	return oracle.present[branch]
}

type recordingResolver struct {
	evidence map[string]*branches.MergeEvidence
	failures map[string]error
	calls    []string
}

func (resolver *recordingResolver) Resolve(_ context.Context, branch string, _ string, _ string) (*branches.MergeEvidence, error) {
	resolver.calls = append(resolver.calls, branch)
	if failure, failed := resolver.failures[branch]; failed {
		return nil, failure
	}
	return resolver.evidence[branch], nil
}

type recordingDeleter struct {
	failures map[string]error
	attempts []string
}

func (deleter *recordingDeleter) Delete(_ context.Context, branch string, _ string) error {
	deleter.attempts = append(deleter.attempts, branch)
	return deleter.failures[branch]
}

type scriptedAsker struct {
	responses []branches.Response
	failure   error
	asked     []string
}

func (asker *scriptedAsker) Ask(_ context.Context, candidate branches.Candidate) (branches.Response, error) {
	asker.asked = append(asker.asked, candidate.Branch)
	if asker.failure != nil {
		return branches.ResponseDecline, asker.failure
	}
	index := len(asker.asked) - 1
	if index >= len(asker.responses) {
		return branches.ResponseDecline, nil
	}
	return asker.responses[index], nil
}

type stubEnumerator struct {
	branchesByPath map[string][]string
	failure        error
}

func (enumerator stubEnumerator) ListBranches(_ context.Context, repositoryPath string) ([]string, error) {
	if enumerator.failure != nil {
		return nil, enumerator.failure
	}
	return enumerator.branchesByPath[repositoryPath], nil
}

type stubIdentitySource struct {
	identity string
	failure  error
}

func (source stubIdentitySource) ResolveIdentity(context.Context, string) (string, error) {
	return source.identity, source.failure
}

type stubRepositoryInspector struct {
	repositories map[string]bool
	remoteURLs   map[string]string
}

func (inspector stubRepositoryInspector) IsRepository(_ context.Context, repositoryPath string) bool {
	return inspector.repositories[repositoryPath]
}

func (inspector stubRepositoryInspector) GetRemoteURL(_ context.Context, repositoryPath string, _ string) (string, error) {
	remoteURL, configured := inspector.remoteURLs[repositoryPath]
	if !configured {
		return "", errors.New("error: No such remote 'origin'")
	}
	return remoteURL, nil
}

func evidenceFor(branch string, number int) *branches.MergeEvidence {
	return &branches.MergeEvidence{
		Title:  "Merge " + branch,
		URL:    "https://github.com/octo/repo/pull/" + strconv.Itoa(number),
		Number: number,
	}
}
