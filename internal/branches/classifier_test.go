package branches_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/branchsweep/internal/branches"
)

const (
	classifierRepositoryPathConstant = "/tmp/classifier-repository"
	classifierIdentityConstant       = "octocat"
	classifierRemoteBranchConstant   = "feature/a"
	classifierMergedBranchConstant   = "feature/b"
	classifierUnmergedBranchConstant = "feature/c"
)

func TestClassifierPartitionsBranches(testInstance *testing.T) {
	mergedEvidence := evidenceFor(classifierMergedBranchConstant, 42)
	resolutionFailure := errors.New("remote URL not parseable")

	testCases := []struct {
		name                  string
		branches              []string
		present               map[string]bool
		evidence              map[string]*branches.MergeEvidence
		failures              map[string]error
		expectedCandidates    []branches.Candidate
		expectedRetained      []branches.RetainedBranch
		expectedErrorBranches []string
		expectedResolverCalls []string
	}{
		{
			name:     "remote_presence_evidence_and_absence",
			branches: []string{classifierRemoteBranchConstant, classifierMergedBranchConstant, classifierUnmergedBranchConstant},
			present:  map[string]bool{classifierRemoteBranchConstant: true},
			evidence: map[string]*branches.MergeEvidence{classifierMergedBranchConstant: mergedEvidence},
			expectedCandidates: []branches.Candidate{
				{Branch: classifierMergedBranchConstant, Evidence: *mergedEvidence},
			},
			expectedRetained: []branches.RetainedBranch{
				{Branch: classifierRemoteBranchConstant, Reason: branches.RetentionReasonPresentOnRemote},
				{Branch: classifierUnmergedBranchConstant, Reason: branches.RetentionReasonUnmergedOrDifferentAuthor},
			},
			expectedErrorBranches: []string{},
			expectedResolverCalls: []string{classifierMergedBranchConstant, classifierUnmergedBranchConstant},
		},
		{
			name:                  "remote_present_branches_skip_resolver",
			branches:              []string{classifierRemoteBranchConstant, classifierMergedBranchConstant},
			present:               map[string]bool{classifierRemoteBranchConstant: true, classifierMergedBranchConstant: true},
			evidence:              map[string]*branches.MergeEvidence{classifierMergedBranchConstant: mergedEvidence},
			expectedCandidates:    []branches.Candidate{},
			expectedRetained:      []branches.RetainedBranch{{Branch: classifierRemoteBranchConstant, Reason: branches.RetentionReasonPresentOnRemote}, {Branch: classifierMergedBranchConstant, Reason: branches.RetentionReasonPresentOnRemote}},
			expectedErrorBranches: []string{},
			expectedResolverCalls: nil,
		},
		{
			name:     "resolution_errors_do_not_stop_remaining_branches",
			branches: []string{classifierUnmergedBranchConstant, classifierMergedBranchConstant},
			evidence: map[string]*branches.MergeEvidence{classifierMergedBranchConstant: mergedEvidence},
			failures: map[string]error{classifierUnmergedBranchConstant: resolutionFailure},
			expectedCandidates: []branches.Candidate{
				{Branch: classifierMergedBranchConstant, Evidence: *mergedEvidence},
			},
			expectedRetained: []branches.RetainedBranch{
				{Branch: classifierUnmergedBranchConstant, Reason: branches.RetentionReasonResolutionError},
			},
			expectedErrorBranches: []string{classifierUnmergedBranchConstant},
			expectedResolverCalls: []string{classifierUnmergedBranchConstant, classifierMergedBranchConstant},
		},
		{
			name:                  "empty_branch_set",
			branches:              nil,
			expectedCandidates:    []branches.Candidate{},
			expectedRetained:      []branches.RetainedBranch{},
			expectedErrorBranches: []string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			oracle := &recordingOracle{present: testCase.present}
			resolver := &recordingResolver{evidence: testCase.evidence, failures: testCase.failures}
			classifier := branches.NewClassifier(oracle, resolver, zap.NewNop())

			classification := classifier.Classify(context.Background(), testCase.branches, classifierRepositoryPathConstant, classifierIdentityConstant)

			require.Equal(testInstance, testCase.expectedCandidates, classification.Candidates)
			require.Equal(testInstance, testCase.expectedRetained, classification.Retained)
			errorBranches := make([]string, 0, len(classification.Errors))
			for _, resolutionError := range classification.Errors {
				errorBranches = append(errorBranches, resolutionError.Branch)
				require.ErrorIs(testInstance, resolutionError, resolutionFailure)
			}
			require.Equal(testInstance, testCase.expectedErrorBranches, errorBranches)
			require.Equal(testInstance, testCase.expectedResolverCalls, resolver.calls)
			require.Len(testInstance, classification.Candidates, len(testCase.branches)-len(classification.Retained))
		})
	}
}

func TestClassifierLogsResolutionErrorsAsWarnings(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.WarnLevel)
	resolver := &recordingResolver{failures: map[string]error{classifierMergedBranchConstant: errors.New("gh: rate limited")}}
	classifier := branches.NewClassifier(&recordingOracle{}, resolver, zap.New(observerCore))

	classifier.Classify(context.Background(), []string{classifierMergedBranchConstant}, classifierRepositoryPathConstant, classifierIdentityConstant)

	entries := observedLogs.All()
	require.Len(testInstance, entries, 1)
	require.Equal(testInstance, classifierRepositoryPathConstant, entries[0].ContextMap()["repository"])
	require.Equal(testInstance, classifierMergedBranchConstant, entries[0].ContextMap()["branch"])
}
