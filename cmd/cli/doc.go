// Package cli constructs the branchsweep command-line interface: the Cobra
// root command with its prune-merged and main-update subcommands, the viper
// configuration loader seeded with embedded defaults, and the zap logger
// shared by every command.
package cli
