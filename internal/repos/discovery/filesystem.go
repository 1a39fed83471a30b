// Package discovery locates git working copies beneath root directories.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

const (
	gitMetadataEntryNameConstant       = ".git"
	rootNotFoundErrorTemplateConstant  = "repository root %s is not a directory"
	unreadableDirectoryMessageConstant = "Skipping unreadable directory"
	logFieldPathConstant               = "path"
)

// RootNotFoundError reports a root that does not exist or is not a directory.
type RootNotFoundError struct {
	Root  string
	Cause error
}

// Error describes the missing root.
func (rootError RootNotFoundError) Error() string {
	return fmt.Sprintf(rootNotFoundErrorTemplateConstant, rootError.Root)
}

// Unwrap exposes the stat failure, if any.
func (rootError RootNotFoundError) Unwrap() error {
	return rootError.Cause
}

// FilesystemRepositoryDiscoverer walks directory trees looking for .git entries.
// Both .git directories and .git files (linked worktrees, submodules) count.
type FilesystemRepositoryDiscoverer struct {
	logger *zap.Logger
}

// NewFilesystemRepositoryDiscoverer constructs a discoverer. A nil logger discards warnings.
func NewFilesystemRepositoryDiscoverer(logger *zap.Logger) *FilesystemRepositoryDiscoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemRepositoryDiscoverer{logger: logger}
}

// DiscoverRepositories returns every repository under the roots, sorted.
// Repositories reachable from more than one root are reported once.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	repositories := make([]string, 0)

	for _, root := range roots {
		absoluteRoot, absoluteError := filepath.Abs(root)
		if absoluteError != nil {
			return nil, RootNotFoundError{Root: root, Cause: absoluteError}
		}
		rootInfo, statError := os.Stat(absoluteRoot)
		if statError != nil {
			return nil, RootNotFoundError{Root: root, Cause: statError}
		}
		if !rootInfo.IsDir() {
			return nil, RootNotFoundError{Root: root}
		}

		walkError := filepath.WalkDir(absoluteRoot, func(path string, entry fs.DirEntry, entryError error) error {
			if entryError != nil {
				discoverer.logger.Debug(unreadableDirectoryMessageConstant, zap.String(logFieldPathConstant, path), zap.Error(entryError))
				if entry != nil && entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if entry.IsDir() && path != absoluteRoot {
				if _, alreadySeen := seen[path]; alreadySeen {
					return fs.SkipDir
				}
			}
			if entry.Name() != gitMetadataEntryNameConstant {
				return nil
			}

			repositoryPath := filepath.Dir(path)
			if _, alreadySeen := seen[repositoryPath]; !alreadySeen {
				seen[repositoryPath] = struct{}{}
				repositories = append(repositories, repositoryPath)
			}
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	sort.Strings(repositories)
	return repositories, nil
}
