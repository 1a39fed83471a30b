package branches

import "strings"

const (
	defaultRemoteNameConstant           = "origin"
	defaultRepositoryRootConstant       = "."
	configurationKeySeparatorConstant   = "."
	rootsConfigurationKeyConstant       = "roots"
	modeConfigurationKeyConstant        = "mode"
	remoteConfigurationKeyConstant      = "remote"
	authorConfigurationKeyConstant      = "author"
	identityKeyConfigurationKeyConstant = "identity_config_key"
	evidenceConfigurationKeyConstant    = "evidence_source"
	apiBaseURLConfigurationKeyConstant  = "api_base_url"
	protectedConfigurationKeyConstant   = "protected_branches"
	outputConfigurationKeyConstant      = "output"
)

// Report output formats.
const (
	OutputFormatConsole = "console"
	OutputFormatYAML    = "yaml"
)

// CommandConfiguration captures configuration values for the prune-merged command.
type CommandConfiguration struct {
	RepositoryRoots   []string `mapstructure:"roots"`
	Mode              string   `mapstructure:"mode"`
	RemoteName        string   `mapstructure:"remote"`
	Author            string   `mapstructure:"author"`
	IdentityConfigKey string   `mapstructure:"identity_config_key"`
	EvidenceSource    string   `mapstructure:"evidence_source"`
	APIBaseURL        string   `mapstructure:"api_base_url"`
	ProtectedBranches []string `mapstructure:"protected_branches"`
	Output            string   `mapstructure:"output"`
}

// DefaultCommandConfiguration provides baseline configuration values for prune-merged.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryRoots:   []string{defaultRepositoryRootConstant},
		Mode:              string(ModeInteractive),
		RemoteName:        defaultRemoteNameConstant,
		Author:            "",
		IdentityConfigKey: DefaultIdentityConfigurationKey,
		EvidenceSource:    string(EvidenceSourceAuto),
		APIBaseURL:        "",
		ProtectedBranches: []string{ProtectedBranchMain, ProtectedBranchMaster},
		Output:            OutputFormatConsole,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys beneath prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	qualify := func(key string) string {
		return prefix + configurationKeySeparatorConstant + key
	}
	return map[string]any{
		qualify(rootsConfigurationKeyConstant):       defaults.RepositoryRoots,
		qualify(modeConfigurationKeyConstant):        defaults.Mode,
		qualify(remoteConfigurationKeyConstant):      defaults.RemoteName,
		qualify(authorConfigurationKeyConstant):      defaults.Author,
		qualify(identityKeyConfigurationKeyConstant): defaults.IdentityConfigKey,
		qualify(evidenceConfigurationKeyConstant):    defaults.EvidenceSource,
		qualify(apiBaseURLConfigurationKeyConstant):  defaults.APIBaseURL,
		qualify(protectedConfigurationKeyConstant):   defaults.ProtectedBranches,
		qualify(outputConfigurationKeyConstant):      defaults.Output,
	}
}

// Sanitize trims values and fills blanks with defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.RepositoryRoots = sanitizeList(configuration.RepositoryRoots)
	sanitized.Mode = valueOrDefault(configuration.Mode, defaults.Mode)
	sanitized.RemoteName = valueOrDefault(configuration.RemoteName, defaults.RemoteName)
	sanitized.Author = strings.TrimSpace(configuration.Author)
	sanitized.IdentityConfigKey = valueOrDefault(configuration.IdentityConfigKey, defaults.IdentityConfigKey)
	sanitized.EvidenceSource = valueOrDefault(configuration.EvidenceSource, defaults.EvidenceSource)
	sanitized.APIBaseURL = strings.TrimSpace(configuration.APIBaseURL)
	sanitized.ProtectedBranches = sanitizeList(configuration.ProtectedBranches)
	sanitized.Output = strings.ToLower(valueOrDefault(configuration.Output, defaults.Output))

	return sanitized
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}

func sanitizeList(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
