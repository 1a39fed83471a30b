package refresh

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/repos/dependencies"
	"github.com/temirov/branchsweep/internal/utils"
	rootutils "github.com/temirov/branchsweep/internal/utils/roots"
)

const (
	commandUseConstant                    = "main-update [roots...]"
	commandShortDescriptionConstant       = "Fast-forward the main branch of every repository"
	commandLongDescriptionConstant        = "main-update scans every git repository beneath the given roots, checks out main (or master when main does not exist), fetches with pruning, and fast-forwards it from the upstream."
	requireCleanFlagNameConstant          = "require-clean"
	requireCleanFlagDescriptionConstant   = "Skip repositories with uncommitted changes"
	updatedMessageTemplateConstant        = "UPDATED: %s (%s)\n"
	skippedMessageTemplateConstant        = "SKIPPED: %s: %v\n"
	discoveryErrorTemplateConstant        = "unable to discover repositories: %w"
	allRepositoriesFailedTemplateConstant = "no repository could be updated: %d failure(s)"
	runStartedMessageConstant             = "Updating main branches"
	logFieldRootsConstant                 = "roots"
	logFieldRepositoryCountConstant       = "repository_count"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the main-update command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandExecutor              dependencies.CommandExecutor
	RepositoryDiscoverer         dependencies.RepositoryDiscoverer
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the main-update command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Bool(requireCleanFlagNameConstant, configuration.RequireClean, requireCleanFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	requireClean, requireCleanError := command.Flags().GetBool(requireCleanFlagNameConstant)
	if requireCleanError != nil {
		return requireCleanError
	}

	repositoryRoots, rootsError := rootutils.Resolve(command, arguments, configuration.RepositoryRoots)
	if rootsError != nil {
		return rootsError
	}

	logger := builder.resolveLogger()
	utils.LogConfigurationSource(command.Context(), logger)
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	commandExecutor, executorError := dependencies.ResolveCommandExecutor(builder.CommandExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(commandExecutor)
	if managerError != nil {
		return managerError
	}

	discoverer := dependencies.ResolveRepositoryDiscoverer(builder.RepositoryDiscoverer, logger)
	repositories, discoveryError := discoverer.DiscoverRepositories(repositoryRoots)
	if discoveryError != nil {
		return fmt.Errorf(discoveryErrorTemplateConstant, discoveryError)
	}

	service, serviceCreationError := NewService(Dependencies{RepositoryManager: repositoryManager, Logger: logger})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	logger.Info(runStartedMessageConstant,
		zap.Strings(logFieldRootsConstant, repositoryRoots),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
	)

	summary := service.Run(command.Context(), repositories, Options{RequireClean: requireClean})
	for _, result := range summary.Updated {
		fmt.Fprintf(command.OutOrStdout(), updatedMessageTemplateConstant, result.RepositoryPath, result.BranchName)
	}
	for _, failure := range summary.Failures {
		fmt.Fprintf(command.OutOrStdout(), skippedMessageTemplateConstant, failure.RepositoryPath, failure.Cause)
	}

	if summary.AllRepositoriesFailed() {
		return fmt.Errorf(allRepositoriesFailedTemplateConstant, len(summary.Failures))
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
