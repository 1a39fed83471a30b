package branches_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branchsweep/internal/branches"
	"github.com/temirov/branchsweep/internal/execshell"
)

const (
	commandRepositoryPathConstant    = "/tmp/repository-one"
	commandBrokenRepositoryConstant  = "/tmp/not-a-repository"
	commandRemoteURLConstant         = "git@github.com:octo/repo.git"
	commandMergedBranchConstant      = "feature/merged"
	commandLiveBranchConstant        = "feature/live"
	commandOpenBranchConstant        = "feature/open"
	commandAuthorConstant            = "octocat"
	commandMergedPullRequestConstant = `[{"number":7,"title":"Add merged feature","url":"https://github.com/octo/repo/pull/7","headRefName":"feature/merged"}]`
	commandEmptyPullRequestsConstant = "[]"
	commandRemoteReferenceTemplate   = "0123456789abcdef\trefs/heads/"
	commandAllFailedMessageConstant  = "no repository could be processed: 1 precondition failure(s)"
	commandConflictingModesConstant  = "use at most one of --dry-run or --force"
)

type fakeRepositoryDiscoverer struct {
	repositories   []string
	discoveryError error
	receivedRoots  []string
}

func (discoverer *fakeRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	discoverer.receivedRoots = append([]string{}, roots...)
	if discoverer.discoveryError != nil {
		return nil, discoverer.discoveryError
	}
	return append([]string{}, discoverer.repositories...), nil
}

type fakeCommandExecutor struct {
	repositories     map[string]bool
	deletedBranches  []string
	gitHubArguments  [][]string
	gitHubInvocation int
}

func newFakeCommandExecutor() *fakeCommandExecutor {
	return &fakeCommandExecutor{repositories: map[string]bool{commandRepositoryPathConstant: true}}
}

func (executor *fakeCommandExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	arguments := details.Arguments
	failure := func(exitCode int) (execshell.ExecutionResult, error) {
		result := execshell.ExecutionResult{ExitCode: exitCode}
		return result, execshell.CommandFailedError{Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details}, Result: result}
	}

	if !executor.repositories[details.WorkingDirectory] {
		return failure(128)
	}

	switch arguments[0] {
	case "rev-parse":
		return execshell.ExecutionResult{StandardOutput: "true\n"}, nil
	case "remote":
		return execshell.ExecutionResult{StandardOutput: commandRemoteURLConstant + "\n"}, nil
	case "for-each-ref":
		return execshell.ExecutionResult{StandardOutput: strings.Join([]string{"main", commandMergedBranchConstant, commandLiveBranchConstant, commandOpenBranchConstant}, "\n") + "\n"}, nil
	case "ls-remote":
		reference := arguments[len(arguments)-1]
		if reference == "refs/heads/"+commandLiveBranchConstant {
			return execshell.ExecutionResult{StandardOutput: commandRemoteReferenceTemplate + commandLiveBranchConstant + "\n"}, nil
		}
		return failure(2)
	case "branch":
		executor.deletedBranches = append(executor.deletedBranches, arguments[len(arguments)-1])
		return execshell.ExecutionResult{}, nil
	case "config":
		return failure(1)
	default:
		return execshell.ExecutionResult{}, errors.New("unexpected git invocation: " + strings.Join(arguments, " "))
	}
}

func (executor *fakeCommandExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.gitHubInvocation++
	executor.gitHubArguments = append(executor.gitHubArguments, append([]string{}, details.Arguments...))
	for index, argument := range details.Arguments {
		if argument == "--head" && index+1 < len(details.Arguments) && details.Arguments[index+1] == commandMergedBranchConstant {
			return execshell.ExecutionResult{StandardOutput: commandMergedPullRequestConstant}, nil
		}
	}
	return execshell.ExecutionResult{StandardOutput: commandEmptyPullRequestsConstant}, nil
}

type commandHarness struct {
	executor   *fakeCommandExecutor
	discoverer *fakeRepositoryDiscoverer
	asker      *scriptedAsker
	logs       *observer.ObservedLogs
	builder    *branches.CommandBuilder
}

func newCommandHarness(repositories []string) *commandHarness {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	logger := zap.New(observerCore)
	harness := &commandHarness{
		executor:   newFakeCommandExecutor(),
		discoverer: &fakeRepositoryDiscoverer{repositories: repositories},
		asker:      &scriptedAsker{},
		logs:       observedLogs,
	}
	harness.builder = &branches.CommandBuilder{
		LoggerProvider:       func() *zap.Logger { return logger },
		CommandExecutor:      harness.executor,
		RepositoryDiscoverer: harness.discoverer,
		ConfigurationProvider: func() branches.CommandConfiguration {
			configuration := branches.DefaultCommandConfiguration()
			configuration.RepositoryRoots = []string{"/tmp/configured-root"}
			return configuration
		},
		ExecutableLocator: func(string) (string, error) { return "/usr/bin/gh", nil },
		EnvironmentLookup: func(string) (string, bool) { return "", false },
		Asker:             harness.asker,
		TerminalDetector:  func(any) bool { return false },
	}
	return harness
}

func (harness *commandHarness) execute(testInstance *testing.T, arguments ...string) (string, error) {
	command, buildError := harness.builder.Build()
	require.NoError(testInstance, buildError)

	command.SilenceUsage = true
	command.SilenceErrors = true

	output := &strings.Builder{}
	command.SetOut(output)
	command.SetErr(output)
	command.SetIn(strings.NewReader(""))
	command.SetArgs(arguments)
	command.SetContext(context.Background())

	executionError := command.Execute()
	return output.String(), executionError
}

type commandReport struct {
	Repositories []struct {
		Path            string   `yaml:"path"`
		Identity        string   `yaml:"identity"`
		Mode            string   `yaml:"mode"`
		DeletedBranches []string `yaml:"deleted_branches"`
		Unacted         []string `yaml:"unacted"`
		Candidates      []struct {
			Branch string `yaml:"branch"`
		} `yaml:"candidates"`
		Retained []struct {
			Branch string `yaml:"branch"`
			Reason string `yaml:"reason"`
		} `yaml:"retained"`
	} `yaml:"repositories"`
	PreconditionFailures []struct {
		Path string `yaml:"path"`
	} `yaml:"precondition_failures"`
}

func decodeCommandReport(testInstance *testing.T, output string) commandReport {
	var report commandReport
	require.NoError(testInstance, yaml.Unmarshal([]byte(output), &report))
	return report
}

func TestPruneMergedCommandModes(testInstance *testing.T) {
	testCases := []struct {
		name             string
		arguments        []string
		askerResponses   []branches.Response
		expectedMode     string
		expectedDeleted  []string
		expectedUnacted  []string
		expectedPrompted []string
	}{
		{
			name:            "dry_run_lists_candidates",
			arguments:       []string{"--dry-run"},
			expectedMode:    "list",
			expectedUnacted: []string{commandMergedBranchConstant},
		},
		{
			name:            "force_deletes_candidates",
			arguments:       []string{"--force"},
			expectedMode:    "force",
			expectedDeleted: []string{commandMergedBranchConstant},
		},
		{
			name:            "mode_flag_selects_force",
			arguments:       []string{"--mode", "force"},
			expectedMode:    "force",
			expectedDeleted: []string{commandMergedBranchConstant},
		},
		{
			name:             "interactive_confirmation",
			arguments:        nil,
			askerResponses:   []branches.Response{branches.ResponseConfirm},
			expectedMode:     "interactive",
			expectedDeleted:  []string{commandMergedBranchConstant},
			expectedPrompted: []string{commandMergedBranchConstant},
		},
		{
			name:             "interactive_decline",
			arguments:        nil,
			askerResponses:   []branches.Response{branches.ResponseDecline},
			expectedMode:     "interactive",
			expectedPrompted: []string{commandMergedBranchConstant},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newCommandHarness([]string{commandRepositoryPathConstant})
			harness.asker.responses = testCase.askerResponses

			arguments := append([]string{"--output", "yaml", "--author", commandAuthorConstant}, testCase.arguments...)
			output, executionError := harness.execute(testInstance, arguments...)
			require.NoError(testInstance, executionError)

			report := decodeCommandReport(testInstance, output)
			require.Len(testInstance, report.Repositories, 1)
			repository := report.Repositories[0]
			require.Equal(testInstance, commandRepositoryPathConstant, repository.Path)
			require.Equal(testInstance, commandAuthorConstant, repository.Identity)
			require.Equal(testInstance, testCase.expectedMode, repository.Mode)
			require.Equal(testInstance, testCase.expectedUnacted, repository.Unacted)
			require.Len(testInstance, repository.Candidates, 1)
			require.Equal(testInstance, commandMergedBranchConstant, repository.Candidates[0].Branch)
			require.Len(testInstance, repository.Retained, 2)

			if testCase.expectedDeleted == nil {
				require.Empty(testInstance, harness.executor.deletedBranches)
			} else {
				require.Equal(testInstance, testCase.expectedDeleted, harness.executor.deletedBranches)
			}
			if testCase.expectedPrompted == nil {
				require.Empty(testInstance, harness.asker.asked)
			} else {
				require.Equal(testInstance, testCase.expectedPrompted, harness.asker.asked)
			}
			require.Equal(testInstance, []string{"/tmp/configured-root"}, harness.discoverer.receivedRoots)
		})
	}
}

func TestPruneMergedCommandPassesAuthorToEvidenceQuery(testInstance *testing.T) {
	harness := newCommandHarness([]string{commandRepositoryPathConstant})
	_, executionError := harness.execute(testInstance, "--dry-run", "--author", commandAuthorConstant)
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, 2, harness.executor.gitHubInvocation)
	for _, arguments := range harness.executor.gitHubArguments {
		require.Contains(testInstance, strings.Join(arguments, " "), "--repo octo/repo")
		require.Contains(testInstance, strings.Join(arguments, " "), "--author octocat")
		require.NotContains(testInstance, strings.Join(arguments, " "), commandLiveBranchConstant)
	}
}

func TestPruneMergedCommandRootArgumentsOverrideConfiguration(testInstance *testing.T) {
	harness := newCommandHarness([]string{commandRepositoryPathConstant})
	_, executionError := harness.execute(testInstance, "--dry-run", "--author", commandAuthorConstant, "/tmp/first", " /tmp/second ", "/tmp/first")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"/tmp/first", "/tmp/second"}, harness.discoverer.receivedRoots)
}

func TestPruneMergedCommandProtectedFlagExtendsConfiguration(testInstance *testing.T) {
	harness := newCommandHarness([]string{commandRepositoryPathConstant})
	output, executionError := harness.execute(testInstance, "--force", "--output", "yaml", "--author", commandAuthorConstant, "--protected", commandMergedBranchConstant)
	require.NoError(testInstance, executionError)

	report := decodeCommandReport(testInstance, output)
	require.Len(testInstance, report.Repositories, 1)
	require.Empty(testInstance, report.Repositories[0].Candidates)
	require.Empty(testInstance, harness.executor.deletedBranches)
}

func TestPruneMergedCommandWithoutEvidenceDeletesNothing(testInstance *testing.T) {
	harness := newCommandHarness([]string{commandRepositoryPathConstant})
	output, executionError := harness.execute(testInstance, "--force", "--output", "yaml", "--author", commandAuthorConstant, "--evidence-source", "none")
	require.NoError(testInstance, executionError)

	report := decodeCommandReport(testInstance, output)
	require.Len(testInstance, report.Repositories, 1)
	require.Empty(testInstance, report.Repositories[0].Candidates)
	require.Empty(testInstance, harness.executor.deletedBranches)
	require.Zero(testInstance, harness.executor.gitHubInvocation)
}

func TestPruneMergedCommandReportsAllPreconditionFailures(testInstance *testing.T) {
	harness := newCommandHarness([]string{commandBrokenRepositoryConstant})
	output, executionError := harness.execute(testInstance, "--dry-run", "--output", "yaml", "--author", commandAuthorConstant)
	require.EqualError(testInstance, executionError, commandAllFailedMessageConstant)
	require.NotContains(testInstance, output, "Usage:")

	report := decodeCommandReport(testInstance, output)
	require.Empty(testInstance, report.Repositories)
	require.Len(testInstance, report.PreconditionFailures, 1)
	require.Equal(testInstance, commandBrokenRepositoryConstant, report.PreconditionFailures[0].Path)
}

func TestPruneMergedCommandToleratesPartialPreconditionFailures(testInstance *testing.T) {
	harness := newCommandHarness([]string{commandBrokenRepositoryConstant, commandRepositoryPathConstant})
	output, executionError := harness.execute(testInstance, "--dry-run", "--output", "yaml", "--author", commandAuthorConstant)
	require.NoError(testInstance, executionError)

	report := decodeCommandReport(testInstance, output)
	require.Len(testInstance, report.Repositories, 1)
	require.Len(testInstance, report.PreconditionFailures, 1)
	require.Equal(testInstance, 1, harness.logs.FilterMessage("Skipping repository").Len())
}

func TestPruneMergedCommandRejectsInvalidFlags(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedError string
	}{
		{name: "dry_run_and_force", arguments: []string{"--dry-run", "--force"}, expectedError: commandConflictingModesConstant},
		{name: "unknown_mode", arguments: []string{"--mode", "purge"}, expectedError: "unsupported mode"},
		{name: "unknown_output", arguments: []string{"--output", "json"}, expectedError: "unsupported value"},
		{name: "unknown_evidence_source", arguments: []string{"--evidence-source", "gitlab"}, expectedError: "unsupported value"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			harness := newCommandHarness([]string{commandRepositoryPathConstant})
			_, executionError := harness.execute(testInstance, testCase.arguments...)
			require.ErrorContains(testInstance, executionError, testCase.expectedError)
			require.Empty(testInstance, harness.executor.deletedBranches)
		})
	}
}

func TestPruneMergedCommandConsoleOutput(testInstance *testing.T) {
	harness := newCommandHarness([]string{commandRepositoryPathConstant})
	output, executionError := harness.execute(testInstance, "--force", "--author", commandAuthorConstant)
	require.NoError(testInstance, executionError)

	require.Contains(testInstance, output, commandRepositoryPathConstant+" (identity: octocat, mode: force)")
	require.Contains(testInstance, output, "    feature/live (present on remote)")
	require.Contains(testInstance, output, "    feature/open (unmerged or different author)")
	require.Contains(testInstance, output, "Total: deleted 1, skipped 0, failed 0")
	require.NotContains(testInstance, output, "\x1b[")
}
