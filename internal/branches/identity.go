package branches

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultIdentityConfigurationKey is the git configuration key consulted for the author login.
	DefaultIdentityConfigurationKey     = "github.user"
	identityLookupFailedMessageConstant = "Identity lookup failed"
	logFieldIdentitySourceConstant      = "identity_source"
	identitySourceGitConfigConstant     = "git config"
	identitySourceLoginConstant         = "authenticated login"
)

// ConfigurationValueReader reads git configuration values.
type ConfigurationValueReader interface {
	GetConfigurationValue(executionContext context.Context, repositoryPath string, key string) (string, error)
}

// ConfiguredIdentitySource resolves the author identity in order: the
// explicitly configured author, the git configuration key, then the login the
// code-review client is authenticated as.
type ConfiguredIdentitySource struct {
	configuredAuthor string
	configurationKey string
	configuration    ConfigurationValueReader
	loginResolver    LoginResolver
	logger           *zap.Logger
}

// NewConfiguredIdentitySource constructs a ConfiguredIdentitySource. The
// configuration reader and login resolver are optional.
func NewConfiguredIdentitySource(configuredAuthor string, configurationKey string, configuration ConfigurationValueReader, loginResolver LoginResolver, logger *zap.Logger) *ConfiguredIdentitySource {
	if len(strings.TrimSpace(configurationKey)) == 0 {
		configurationKey = DefaultIdentityConfigurationKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfiguredIdentitySource{
		configuredAuthor: strings.TrimSpace(configuredAuthor),
		configurationKey: strings.TrimSpace(configurationKey),
		configuration:    configuration,
		loginResolver:    loginResolver,
		logger:           logger,
	}
}

// ResolveIdentity implements IdentitySource.
func (source *ConfiguredIdentitySource) ResolveIdentity(executionContext context.Context, repositoryPath string) (string, error) {
	if len(source.configuredAuthor) > 0 {
		return source.configuredAuthor, nil
	}

	if source.configuration != nil {
		value, lookupError := source.configuration.GetConfigurationValue(executionContext, repositoryPath, source.configurationKey)
		if lookupError != nil {
			source.logger.Debug(identityLookupFailedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.String(logFieldIdentitySourceConstant, identitySourceGitConfigConstant),
				zap.Error(lookupError),
			)
		}
		if trimmed := strings.TrimSpace(value); len(trimmed) > 0 {
			return trimmed, nil
		}
	}

	if source.loginResolver != nil {
		login, loginError := source.loginResolver.ResolveAuthenticatedLogin(executionContext)
		if loginError != nil {
			source.logger.Debug(identityLookupFailedMessageConstant,
				zap.String(logFieldRepositoryConstant, repositoryPath),
				zap.String(logFieldIdentitySourceConstant, identitySourceLoginConstant),
				zap.Error(loginError),
			)
		}
		if trimmed := strings.TrimSpace(login); len(trimmed) > 0 {
			return trimmed, nil
		}
	}

	return "", ErrIdentityNotConfigured
}
