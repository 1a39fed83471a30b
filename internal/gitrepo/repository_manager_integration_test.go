package gitrepo_test

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/execshell"
	"github.com/temirov/branchsweep/internal/gitrepo"
)

func runGit(testInstance *testing.T, executor *execshell.ShellExecutor, workingDirectory string, arguments ...string) {
	testInstance.Helper()
	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			"GIT_AUTHOR_NAME":     "Branch Sweep",
			"GIT_AUTHOR_EMAIL":    "branchsweep@example.com",
			"GIT_COMMITTER_NAME":  "Branch Sweep",
			"GIT_COMMITTER_EMAIL": "branchsweep@example.com",
		},
	})
	require.NoError(testInstance, executionError)
}

func TestRepositoryManagerAgainstRealGit(testInstance *testing.T) {
	if _, lookupError := exec.LookPath(string(execshell.CommandGit)); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)
	manager, managerError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, managerError)

	workspace := testInstance.TempDir()
	remotePath := filepath.Join(workspace, "remote.git")
	repositoryPath := filepath.Join(workspace, "working")

	runGit(testInstance, executor, workspace, "init", "--bare", remotePath)
	runGit(testInstance, executor, workspace, "init", repositoryPath)
	runGit(testInstance, executor, repositoryPath, "symbolic-ref", "HEAD", "refs/heads/main")
	runGit(testInstance, executor, repositoryPath, "commit", "--allow-empty", "-m", "initial")
	runGit(testInstance, executor, repositoryPath, "remote", "add", "origin", remotePath)
	runGit(testInstance, executor, repositoryPath, "branch", "feature/pushed")
	runGit(testInstance, executor, repositoryPath, "branch", "feature/local-only")
	runGit(testInstance, executor, repositoryPath, "push", "origin", "feature/pushed")

	executionContext := context.Background()

	require.True(testInstance, manager.IsRepository(executionContext, repositoryPath))
	require.False(testInstance, manager.IsRepository(executionContext, workspace))

	localBranches, listError := manager.ListLocalBranches(executionContext, repositoryPath)
	require.NoError(testInstance, listError)
	require.ElementsMatch(testInstance, []string{"main", "feature/pushed", "feature/local-only"}, localBranches)

	pushedExists, pushedError := manager.RemoteBranchExists(executionContext, repositoryPath, "origin", "feature/pushed")
	require.NoError(testInstance, pushedError)
	require.True(testInstance, pushedExists)

	localOnlyExists, localOnlyError := manager.RemoteBranchExists(executionContext, repositoryPath, "origin", "feature/local-only")
	require.NoError(testInstance, localOnlyError)
	require.False(testInstance, localOnlyExists)

	remoteURL, remoteError := manager.GetRemoteURL(executionContext, repositoryPath, "origin")
	require.NoError(testInstance, remoteError)
	require.Equal(testInstance, remotePath, remoteURL)

	_, missingRemoteError := manager.GetRemoteURL(executionContext, repositoryPath, "upstream")
	require.Error(testInstance, missingRemoteError)

	configurationValue, configurationError := manager.GetConfigurationValue(executionContext, repositoryPath, "branchsweep.unset-key")
	require.NoError(testInstance, configurationError)
	require.Empty(testInstance, configurationValue)

	require.True(testInstance, manager.LocalBranchExists(executionContext, repositoryPath, "main"))
	require.False(testInstance, manager.LocalBranchExists(executionContext, repositoryPath, "master"))

	clean, cleanError := manager.IsWorktreeClean(executionContext, repositoryPath)
	require.NoError(testInstance, cleanError)
	require.True(testInstance, clean)

	require.NoError(testInstance, manager.DeleteLocalBranch(executionContext, repositoryPath, "feature/local-only"))
	remainingBranches, remainingError := manager.ListLocalBranches(executionContext, repositoryPath)
	require.NoError(testInstance, remainingError)
	require.NotContains(testInstance, remainingBranches, "feature/local-only")
}
