package branches

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/branchsweep/internal/githubapi"
	"github.com/temirov/branchsweep/internal/githubcli"
	"github.com/temirov/branchsweep/internal/repos/dependencies"
	"github.com/temirov/branchsweep/internal/ui"
	"github.com/temirov/branchsweep/internal/utils"
	"github.com/temirov/branchsweep/internal/utils/flags"
	rootutils "github.com/temirov/branchsweep/internal/utils/roots"
)

const (
	commandUseConstant                    = "prune-merged [roots...]"
	commandShortDescriptionConstant       = "Delete local branches whose pull requests have merged"
	commandLongDescriptionConstant        = "prune-merged scans every git repository beneath the given roots, keeps branches that still exist on the remote or lack a merged pull request authored by you, and deletes the rest according to the selected mode."
	modeFlagNameConstant                  = "mode"
	modeFlagUsageTemplateConstant         = "Disposition mode (%s)"
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagUsageConstant               = "List candidates without deleting anything (same as --mode list)"
	forceFlagNameConstant                 = "force"
	forceFlagUsageConstant                = "Delete every candidate without prompting (same as --mode force)"
	authorFlagNameConstant                = "author"
	authorFlagUsageConstant               = "Pull request author login; defaults to git config github.user or the authenticated login"
	remoteFlagNameConstant                = "remote"
	remoteFlagUsageConstant               = "Remote consulted for branch existence and repository identity"
	evidenceSourceFlagNameConstant        = "evidence-source"
	evidenceSourceFlagUsageConstant       = "Merge evidence backend."
	outputFlagNameConstant                = "output"
	outputFlagUsageConstant               = "Report format."
	protectedFlagNameConstant             = "protected"
	protectedFlagUsageConstant            = "Additional branch names never considered for deletion (main and master are always protected)"
	conflictingModeFlagsMessageConstant   = "use at most one of --dry-run or --force"
	allRepositoriesFailedTemplateConstant = "no repository could be processed: %d precondition failure(s)"
	discoveryErrorTemplateConstant        = "unable to discover repositories: %w"
	renderErrorTemplateConstant           = "unable to render report: %w"
	runStartedMessageConstant             = "Pruning merged branches"
	logFieldRootsConstant                 = "roots"
	logFieldRepositoryCountConstant       = "repository_count"
	logFieldModeConstant                  = "mode"
)

var (
	evidenceSourceChoices = []string{string(EvidenceSourceAuto), string(EvidenceSourceGitHubCLI), string(EvidenceSourceGitHubAPI), string(EvidenceSourceNone)}
	outputFormatChoices   = []string{OutputFormatConsole, OutputFormatYAML}
	errConflictingModes   = errors.New(conflictingModeFlagsMessageConstant)
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the prune-merged command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandExecutor              dependencies.CommandExecutor
	RepositoryDiscoverer         RepositoryDiscoverer
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	ExecutableLocator            githubcli.ExecutableLocator
	EnvironmentLookup            githubapi.EnvironmentLookup
	Asker                        Asker
	TerminalDetector             ui.TerminalDetector
}

type commandFlagValues struct {
	mode           Mode
	dryRun         bool
	force          bool
	author         string
	remote         string
	evidenceSource string
	output         string
	protected      []string
}

// Build constructs the prune-merged command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	configuration := builder.resolveConfiguration()

	defaultMode, modeError := ParseMode(configuration.Mode)
	if modeError != nil {
		defaultMode = ModeInteractive
	}

	flagValues := &commandFlagValues{}
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, arguments, flagValues)
		},
	}

	command.Flags().Var(newModeFlagValue(&flagValues.mode, defaultMode), modeFlagNameConstant, fmt.Sprintf(modeFlagUsageTemplateConstant, SupportedModesDescription()))
	command.Flags().BoolVar(&flagValues.dryRun, dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	command.Flags().BoolVar(&flagValues.force, forceFlagNameConstant, false, forceFlagUsageConstant)
	command.Flags().StringVar(&flagValues.author, authorFlagNameConstant, "", authorFlagUsageConstant)
	command.Flags().StringVar(&flagValues.remote, remoteFlagNameConstant, configuration.RemoteName, remoteFlagUsageConstant)
	command.Flags().Var(
		flags.NewChoiceValue(&flagValues.evidenceSource, configuration.EvidenceSource, evidenceSourceChoices),
		evidenceSourceFlagNameConstant,
		flags.FormatChoiceUsage(configuration.EvidenceSource, evidenceSourceChoices, evidenceSourceFlagUsageConstant),
	)
	command.Flags().Var(
		flags.NewChoiceValue(&flagValues.output, configuration.Output, outputFormatChoices),
		outputFlagNameConstant,
		flags.FormatChoiceUsage(configuration.Output, outputFormatChoices, outputFlagUsageConstant),
	)
	command.Flags().StringSliceVar(&flagValues.protected, protectedFlagNameConstant, nil, protectedFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string, flagValues *commandFlagValues) error {
	configuration := builder.applyFlagOverrides(command, builder.resolveConfiguration(), flagValues)

	mode, modeError := builder.resolveMode(command, configuration, flagValues)
	if modeError != nil {
		return modeError
	}

	evidenceSource, evidenceSourceError := ParseEvidenceSource(configuration.EvidenceSource)
	if evidenceSourceError != nil {
		return evidenceSourceError
	}

	renderer, rendererError := builder.resolveRenderer(command, configuration.Output)
	if rendererError != nil {
		return rendererError
	}

	repositoryRoots, rootsError := rootutils.Resolve(command, arguments, configuration.RepositoryRoots)
	if rootsError != nil {
		return rootsError
	}

	logger := builder.resolveLogger()
	utils.LogConfigurationSource(command.Context(), logger)

	commandExecutor, executorError := dependencies.ResolveCommandExecutor(builder.CommandExecutor, logger, builder.humanReadableLogging())
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

	evidenceQuery, loginResolver, selectionError := SelectEvidenceQuery(evidenceSource, EvidenceSourceDependencies{
		GitHubExecutor:    commandExecutor,
		ExecutableLocator: builder.ExecutableLocator,
		EnvironmentLookup: builder.EnvironmentLookup,
		APIBaseURL:        configuration.APIBaseURL,
		Logger:            logger,
	})
	if selectionError != nil {
		return selectionError
	}

	var asker Asker
	if mode == ModeInteractive {
		asker = builder.resolveAsker(command)
	}

	service, serviceError := NewService(Dependencies{
		Repositories:   repositoryManager,
		Enumerator:     NewLocalBranchEnumerator(repositoryManager, configuration.ProtectedBranches),
		IdentitySource: NewConfiguredIdentitySource(configuration.Author, configuration.IdentityConfigKey, repositoryManager, loginResolver, logger),
		Oracle:         NewRemoteOracle(repositoryManager, configuration.RemoteName, logger),
		Resolver:       NewPullRequestEvidenceResolver(repositoryManager, configuration.RemoteName, evidenceQuery),
		Deleter:        NewForceBranchDeleter(repositoryManager),
		Asker:          asker,
		Logger:         logger,
	})
	if serviceError != nil {
		return serviceError
	}

	logger.Info(runStartedMessageConstant,
		zap.Strings(logFieldRootsConstant, repositoryRoots),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
		zap.String(logFieldModeConstant, string(mode)),
	)

	summary := service.Run(command.Context(), repositories, Options{Mode: mode, RemoteName: configuration.RemoteName})

	if renderError := renderer.Render(command.OutOrStdout(), summary); renderError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, renderError)
	}

	if summary.AllRepositoriesFailedPreconditions() {
		return fmt.Errorf(allRepositoriesFailedTemplateConstant, len(summary.PreconditionFailures))
	}
	return nil
}

func (builder *CommandBuilder) applyFlagOverrides(command *cobra.Command, configuration CommandConfiguration, flagValues *commandFlagValues) CommandConfiguration {
	overridden := configuration
	if command.Flags().Changed(authorFlagNameConstant) {
		overridden.Author = flagValues.author
	}
	if command.Flags().Changed(remoteFlagNameConstant) {
		overridden.RemoteName = flagValues.remote
	}
	if command.Flags().Changed(evidenceSourceFlagNameConstant) {
		overridden.EvidenceSource = flagValues.evidenceSource
	}
	if command.Flags().Changed(outputFlagNameConstant) {
		overridden.Output = flagValues.output
	}
	if command.Flags().Changed(protectedFlagNameConstant) {
		overridden.ProtectedBranches = append(append([]string{}, configuration.ProtectedBranches...), flagValues.protected...)
	}
	return overridden.Sanitize()
}

func (builder *CommandBuilder) resolveMode(command *cobra.Command, configuration CommandConfiguration, flagValues *commandFlagValues) (Mode, error) {
	switch {
	case flagValues.dryRun && flagValues.force:
		return "", errConflictingModes
	case flagValues.dryRun:
		return ModeList, nil
	case flagValues.force:
		return ModeForce, nil
	case command.Flags().Changed(modeFlagNameConstant):
		return flagValues.mode, nil
	default:
		return ParseMode(configuration.Mode)
	}
}

func (builder *CommandBuilder) resolveRenderer(command *cobra.Command, output string) (ReportRenderer, error) {
	switch output {
	case OutputFormatYAML:
		return YAMLReportRenderer{}, nil
	case OutputFormatConsole:
		return NewConsoleReportRenderer(ui.ColorEnabled(command.OutOrStdout(), builder.TerminalDetector)), nil
	default:
		var target string
		return nil, flags.NewChoiceValue(&target, OutputFormatConsole, outputFormatChoices).Set(output)
	}
}

func (builder *CommandBuilder) resolveAsker(command *cobra.Command) Asker {
	if builder.Asker != nil {
		return builder.Asker
	}
	detector := builder.TerminalDetector
	if detector == nil {
		detector = ui.IsTerminal
	}
	if detector(command.InOrStdin()) && detector(command.OutOrStdout()) {
		return NewSelectAsker(nil)
	}
	return NewLineAsker(command.InOrStdin(), command.OutOrStdout())
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
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
