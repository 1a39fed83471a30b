package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericSubjectTemplateConstant          = "%s %s"
	workingDirectorySuffixTemplateConstant  = " in %s"
	standardErrorSuffixTemplateConstant     = ": %s"
	exitCodeSuffixTemplateConstant          = " (exit code %d%s)"
	argumentsSeparatorConstant              = " "
	currentDirectoryLabelConstant           = "current directory"
	allRemotesLabelConstant                 = "remotes"
	currentBranchLabelConstant              = "current branch"
	unknownValueLabelConstant               = "unknown"
	unknownFailureLabelConstant             = "unknown error"
	flagPrefixConstant                      = "-"
	headsReferencePrefixConstant            = "refs/heads/"
	gitLSRemoteSubcommandConstant           = "ls-remote"
	gitBranchSubcommandConstant             = "branch"
	gitForEachRefSubcommandConstant         = "for-each-ref"
	gitRemoteSubcommandConstant             = "remote"
	gitConfigSubcommandConstant             = "config"
	gitFetchSubcommandConstant              = "fetch"
	gitCheckoutSubcommandConstant           = "checkout"
	gitPullSubcommandConstant               = "pull"
	gitStatusSubcommandConstant             = "status"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitBranchForceDeleteFlagConstant        = "-D"
	gitBranchDeleteFlagConstant             = "-d"
	gitConfigGetFlagConstant                = "--get"
	gitHubPullRequestSubcommandConstant     = "pr"
	gitHubListSubcommandConstant            = "list"
	gitHubAPISubcommandConstant             = "api"
	gitHubHeadFlagConstant                  = "--head"
	gitHubAuthorFlagConstant                = "--author"
	gitHubRepositoryFlagConstant            = "--repo"
	gitHubAuthSubcommandConstant            = "auth"
	gitHubAuthStatusSubcommandConstant      = "status"
	gitHubAuthStatusDescriptionConstant     = "GitHub CLI authentication status"
	gitHubPullRequestSearchTemplateConstant = "merged pull requests for %s by %s"
	gitHubAPIRequestTemplateConstant        = "GitHub API request %s"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	remoteBranchCheckTemplates = stageTemplates{
		start:            "Checking whether %s exists",
		success:          "Checked whether %s exists",
		failure:          "Failed to check whether %s exists",
		executionFailure: "Unable to check whether %s exists",
	}
	branchDeletionTemplates = stageTemplates{
		start:            "Deleting local branch %s",
		success:          "Deleted local branch %s",
		failure:          "Failed to delete local branch %s",
		executionFailure: "Unable to delete local branch %s",
	}
	branchListingTemplates = stageTemplates{
		start:            "Listing local branches%s",
		success:          "Listed local branches%s",
		failure:          "Failed to list local branches%s",
		executionFailure: "Unable to list local branches%s",
	}
	remoteLookupTemplates = stageTemplates{
		start:            "Reading remote %s",
		success:          "Read remote %s",
		failure:          "Failed to read remote %s",
		executionFailure: "Unable to read remote %s",
	}
	configurationLookupTemplates = stageTemplates{
		start:            "Reading git configuration %s",
		success:          "Read git configuration %s",
		failure:          "Git configuration %s is not set",
		executionFailure: "Unable to read git configuration %s",
	}
	fetchTemplates = stageTemplates{
		start:            "Fetching %s",
		success:          "Fetched %s",
		failure:          "Failed to fetch %s",
		executionFailure: "Unable to fetch %s",
	}
	checkoutTemplates = stageTemplates{
		start:            "Switching to branch %s",
		success:          "Switched to branch %s",
		failure:          "Failed to switch to branch %s",
		executionFailure: "Unable to switch to branch %s",
	}
	pullTemplates = stageTemplates{
		start:            "Pulling %s",
		success:          "Pulled %s",
		failure:          "Failed to pull %s",
		executionFailure: "Unable to pull %s",
	}
	statusTemplates = stageTemplates{
		start:            "Reviewing working tree status%s",
		success:          "Reviewed working tree status%s",
		failure:          "Failed to review working tree status%s",
		executionFailure: "Unable to review working tree status%s",
	}
	revisionTemplates = stageTemplates{
		start:            "Resolving %s",
		success:          "Resolved %s",
		failure:          "Failed to resolve %s",
		executionFailure: "Unable to resolve %s",
	}
	gitHubQueryTemplates = stageTemplates{
		start:            "Querying %s",
		success:          "Queried %s",
		failure:          "Failed to query %s",
		executionFailure: "Unable to query %s",
	}
	genericTemplates = stageTemplates{
		start:            "Running %s",
		success:          "Completed %s",
		failure:          "%s failed",
		executionFailure: "%s could not run",
	}
)

// CommandMessageFormatter renders human-readable descriptions of command lifecycles.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command that is about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage describes a command that exited successfully.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage describes a command that exited with a non-zero code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage describes a command that could not run.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	templates, subject := formatter.describe(command)
	message := fmt.Sprintf(templates.pick(stage), subject)

	switch stage {
	case messageStageFailure:
		return message + fmt.Sprintf(exitCodeSuffixTemplateConstant, result.ExitCode, formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return message + fmt.Sprintf(standardErrorSuffixTemplateConstant, describeFailure(failure))
	default:
		return message
	}
}

func (templates stageTemplates) pick(stage messageStage) string {
	switch stage {
	case messageStageSuccess:
		return templates.success
	case messageStageFailure:
		return templates.failure
	case messageStageExecutionFailure:
		return templates.executionFailure
	default:
		return templates.start
	}
}

func (formatter CommandMessageFormatter) describe(command ShellCommand) (stageTemplates, string) {
	switch command.Name {
	case CommandGit:
		return formatter.describeGit(command)
	case CommandGitHub:
		return formatter.describeGitHub(command)
	default:
		return genericTemplates, formatter.describeGeneric(command)
	}
}

func (formatter CommandMessageFormatter) describeGit(command ShellCommand) (stageTemplates, string) {
	arguments := command.Details.Arguments
	location := formatWorkingDirectorySuffix(command)
	if len(arguments) == 0 {
		return genericTemplates, formatter.describeGeneric(command)
	}

	switch arguments[0] {
	case gitLSRemoteSubcommandConstant:
		positional := positionalArguments(arguments[1:])
		remote := valueAt(positional, 0)
		reference := strings.TrimPrefix(valueAt(positional, 1), headsReferencePrefixConstant)
		return remoteBranchCheckTemplates, fmt.Sprintf("%s on %s", reference, remote)
	case gitBranchSubcommandConstant:
		if containsArgument(arguments, gitBranchForceDeleteFlagConstant) || containsArgument(arguments, gitBranchDeleteFlagConstant) {
			return branchDeletionTemplates, valueAt(positionalArguments(arguments[1:]), 0) + location
		}
	case gitForEachRefSubcommandConstant:
		return branchListingTemplates, location
	case gitRemoteSubcommandConstant:
		positional := positionalArguments(arguments[1:])
		return remoteLookupTemplates, valueAt(positional, 1) + location
	case gitConfigSubcommandConstant:
		if containsArgument(arguments, gitConfigGetFlagConstant) {
			return configurationLookupTemplates, valueAt(positionalArguments(arguments[1:]), 0)
		}
	case gitFetchSubcommandConstant:
		return fetchTemplates, valueOrLabel(positionalArguments(arguments[1:]), allRemotesLabelConstant) + location
	case gitCheckoutSubcommandConstant:
		return checkoutTemplates, valueAt(positionalArguments(arguments[1:]), 0) + location
	case gitPullSubcommandConstant:
		return pullTemplates, valueOrLabel(positionalArguments(arguments[1:]), currentBranchLabelConstant) + location
	case gitStatusSubcommandConstant:
		return statusTemplates, location
	case gitRevParseSubcommandConstant:
		return revisionTemplates, valueAt(positionalArguments(arguments[1:]), 0) + location
	}
	return genericTemplates, formatter.describeGeneric(command)
}

func (formatter CommandMessageFormatter) describeGitHub(command ShellCommand) (stageTemplates, string) {
	arguments := command.Details.Arguments
	switch {
	case len(arguments) >= 2 && arguments[0] == gitHubPullRequestSubcommandConstant && arguments[1] == gitHubListSubcommandConstant:
		head := ensureValue(findFlagValue(arguments, gitHubHeadFlagConstant))
		author := ensureValue(findFlagValue(arguments, gitHubAuthorFlagConstant))
		subject := fmt.Sprintf(gitHubPullRequestSearchTemplateConstant, head, author)
		if repository := findFlagValue(arguments, gitHubRepositoryFlagConstant); len(repository) > 0 {
			subject += fmt.Sprintf(" in %s", repository)
		}
		return gitHubQueryTemplates, subject
	case len(arguments) >= 2 && arguments[0] == gitHubAPISubcommandConstant:
		return gitHubQueryTemplates, fmt.Sprintf(gitHubAPIRequestTemplateConstant, arguments[1])
	case len(arguments) >= 2 && arguments[0] == gitHubAuthSubcommandConstant && arguments[1] == gitHubAuthStatusSubcommandConstant:
		return gitHubQueryTemplates, gitHubAuthStatusDescriptionConstant
	}
	return genericTemplates, formatter.describeGeneric(command)
}

func (formatter CommandMessageFormatter) describeGeneric(command ShellCommand) string {
	label := strings.TrimSpace(fmt.Sprintf(genericSubjectTemplateConstant, command.Name, strings.Join(command.Details.Arguments, argumentsSeparatorConstant)))
	return label + formatWorkingDirectorySuffix(command)
}

func formatWorkingDirectorySuffix(command ShellCommand) string {
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		workingDirectory = currentDirectoryLabelConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, workingDirectory)
}

func formatStandardErrorSuffix(standardError string) string {
	trimmed := strings.TrimSpace(standardError)
	if len(trimmed) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmed)
}

func describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureLabelConstant
	}
	return failure.Error()
}

func positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if strings.HasPrefix(argument, flagPrefixConstant) {
			continue
		}
		positional = append(positional, argument)
	}
	return positional
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if argument == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments)-1; index++ {
		if arguments[index] == flag {
			return arguments[index+1]
		}
	}
	return ""
}

func valueAt(values []string, index int) string {
	if index < 0 || index >= len(values) {
		return unknownValueLabelConstant
	}
	return ensureValue(values[index])
}

func valueOrLabel(positional []string, label string) string {
	if len(positional) == 0 {
		return label
	}
	return strings.Join(positional, argumentsSeparatorConstant)
}

func ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return unknownValueLabelConstant
	}
	return trimmed
}
