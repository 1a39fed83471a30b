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

type scriptedRemoteChecker struct {
	existing map[string]bool
	failure  error
	remotes  []string
}

func (checker *scriptedRemoteChecker) RemoteBranchExists(_ context.Context, _ string, remoteName string, branchName string) (bool, error) {
	checker.remotes = append(checker.remotes, remoteName)
	if checker.failure != nil {
		return false, checker.failure
	}
	return checker.existing[branchName], nil
}

func TestRemoteOracleReportsExistenceResults(testInstance *testing.T) {
	checker := &scriptedRemoteChecker{existing: map[string]bool{"feature/live": true}}
	oracle := branches.NewRemoteOracle(checker, "upstream", zap.NewNop())

	require.True(testInstance, oracle.Exists(context.Background(), "feature/live", "/tmp/repository"))
	require.False(testInstance, oracle.Exists(context.Background(), "feature/gone", "/tmp/repository"))
	require.Equal(testInstance, []string{"upstream", "upstream"}, checker.remotes)
}

func TestRemoteOracleTreatsFailuresAsAbsentAndWarnsOncePerRepository(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.WarnLevel)
	checker := &scriptedRemoteChecker{failure: errors.New("fatal: could not read from remote repository")}
	oracle := branches.NewRemoteOracle(checker, "origin", zap.New(observerCore))

	for _, branch := range []string{"feature/one", "feature/two", "feature/three"} {
		require.False(testInstance, oracle.Exists(context.Background(), branch, "/tmp/first"))
	}
	require.False(testInstance, oracle.Exists(context.Background(), "feature/one", "/tmp/second"))

	entries := observedLogs.All()
	require.Len(testInstance, entries, 2)
	require.Equal(testInstance, "/tmp/first", entries[0].ContextMap()["repository"])
	require.Equal(testInstance, "/tmp/second", entries[1].ContextMap()["repository"])
}
