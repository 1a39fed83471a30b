package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/execshell"
)

const (
	gitLSRemoteSubcommandConstant  = "ls-remote"
	gitConfigSubcommandConstant    = "config"
	gitRevParseSubcommandConstant  = "rev-parse"
	lsRemoteAbsentExitCodeConstant = 2
	lookupMissingExitCodeConstant  = 1
)

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

var _ execshell.CommandEventObserver = (*ConsoleCommandEventLogger)(nil)

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted logs that a command is about to run.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted logs the command result. Non-zero exits log at warn level,
// except for exit codes that the caller treats as a normal answer.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 || isExpectedExitCode(command, result.ExitCode) {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command, result))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed logs a command that could not be started or was interrupted.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func isExpectedExitCode(command execshell.ShellCommand, exitCode int) bool {
	if command.Name != execshell.CommandGit || len(command.Details.Arguments) == 0 {
		return false
	}
	switch command.Details.Arguments[0] {
	case gitLSRemoteSubcommandConstant:
		return exitCode == lsRemoteAbsentExitCodeConstant
	case gitConfigSubcommandConstant, gitRevParseSubcommandConstant:
		return exitCode == lookupMissingExitCodeConstant
	default:
		return false
	}
}
