// Package roots resolves the directories a command scans for repositories.
package roots

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

const (
	missingRootsMessageConstant     = "no repository roots provided; pass directories as arguments or configure roots"
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

// ErrNoRoots indicates that neither arguments nor configuration named a root.
var ErrNoRoots = errors.New(missingRootsMessageConstant)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// Resolver picks roots from positional arguments, falling back to configuration.
type Resolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewResolver constructs a Resolver. A nil provider uses os.UserHomeDir.
func NewResolver(provider HomeDirectoryProvider) *Resolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &Resolver{homeDirectoryProvider: provider}
}

// Resolve is a convenience wrapper around a default Resolver.
func Resolve(command *cobra.Command, arguments []string, configuredRoots []string) ([]string, error) {
	return NewResolver(nil).Resolve(command, arguments, configuredRoots)
}

// Resolve returns the trimmed, home-expanded, de-duplicated roots. Arguments
// take precedence over configured roots. The command is used only for usage
// output when no root is available.
func (resolver *Resolver) Resolve(command *cobra.Command, arguments []string, configuredRoots []string) ([]string, error) {
	selected := resolver.normalize(arguments)
	if len(selected) == 0 {
		selected = resolver.normalize(configuredRoots)
	}
	if len(selected) == 0 {
		if command != nil {
			_ = command.Help()
		}
		return nil, ErrNoRoots
	}
	return selected, nil
}

func (resolver *Resolver) normalize(candidates []string) []string {
	normalized := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		expanded := resolver.expandHome(trimmed)
		if _, duplicate := seen[expanded]; duplicate {
			continue
		}
		seen[expanded] = struct{}{}
		normalized = append(normalized, expanded)
	}
	return normalized
}

func (resolver *Resolver) expandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	homeDirectory := resolver.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	default:
		return candidatePath
	}
}

func (resolver *Resolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
