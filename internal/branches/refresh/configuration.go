package refresh

import "strings"

const (
	defaultRepositoryRootConstant        = "."
	configurationKeySeparatorConstant    = "."
	rootsConfigurationKeyConstant        = "roots"
	requireCleanConfigurationKeyConstant = "require_clean"
)

// CommandConfiguration captures configuration values for the main-update command.
type CommandConfiguration struct {
	RepositoryRoots []string `mapstructure:"roots"`
	RequireClean    bool     `mapstructure:"require_clean"`
}

// DefaultCommandConfiguration provides baseline configuration values for main-update.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryRoots: []string{defaultRepositoryRootConstant},
		RequireClean:    true,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys beneath prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + rootsConfigurationKeyConstant:        defaults.RepositoryRoots,
		prefix + configurationKeySeparatorConstant + requireCleanConfigurationKeyConstant: defaults.RequireClean,
	}
}

// Sanitize trims repository roots and drops blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RepositoryRoots = make([]string, 0, len(configuration.RepositoryRoots))
	for _, root := range configuration.RepositoryRoots {
		trimmed := strings.TrimSpace(root)
		if len(trimmed) == 0 {
			continue
		}
		sanitized.RepositoryRoots = append(sanitized.RepositoryRoots, trimmed)
	}
	return sanitized
}
