// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// BRANCHSWEEP_ environment variables through Viper. LoggerFactory builds zap
// loggers in structured or console form.
package utils
