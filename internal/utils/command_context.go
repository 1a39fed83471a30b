package utils

import (
	"context"

	"go.uber.org/zap"
)

const (
	configurationSourceMessageConstant      = "Using configuration"
	configurationSourceFieldConstant        = "config_file"
	embeddedConfigurationSourceConstant     = "embedded defaults"
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
)

type commandContextKey string

// WithConfigurationFile records the configuration file the root command loaded. An empty path means no file was
// found and the embedded defaults apply.
func WithConfigurationFile(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFile returns the configuration file recorded by WithConfigurationFile.
func ConfigurationFile(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, available := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	return configurationFilePath, available
}

// LogConfigurationSource emits a debug entry naming where a command's settings came from.
func LogConfigurationSource(executionContext context.Context, logger *zap.Logger) {
	if logger == nil {
		return
	}
	configurationFilePath, available := ConfigurationFile(executionContext)
	if !available {
		return
	}
	if len(configurationFilePath) == 0 {
		configurationFilePath = embeddedConfigurationSourceConstant
	}
	logger.Debug(configurationSourceMessageConstant, zap.String(configurationSourceFieldConstant, configurationFilePath))
}
