// Package dependencies supplies default collaborators for commands that were
// not given explicit ones, so tests can inject fakes while the CLI runs against
// real git and the filesystem.
package dependencies

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/execshell"
	"github.com/temirov/branchsweep/internal/gitrepo"
	"github.com/temirov/branchsweep/internal/repos/discovery"
	"github.com/temirov/branchsweep/internal/ui"
)

// RepositoryDiscoverer locates repositories beneath root directories.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// CommandExecutor runs git and gh commands.
type CommandExecutor interface {
	gitrepo.GitExecutor
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing RepositoryDiscoverer, logger *zap.Logger) RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer(logger)
}

// ResolveCommandExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging attaches a console observer that narrates each command.
func ResolveCommandExecutor(existing CommandExecutor, logger *zap.Logger, humanReadableLogging bool) (CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	observers := make([]execshell.CommandEventObserver, 0, 1)
	if humanReadableLogging {
		observers = append(observers, ui.NewConsoleCommandEventLogger(logger))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager builds a git repository manager over the executor.
func ResolveRepositoryManager(executor gitrepo.GitExecutor) (*gitrepo.RepositoryManager, error) {
	return gitrepo.NewRepositoryManager(executor)
}
