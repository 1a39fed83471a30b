package roots_test

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/branchsweep/internal/utils/roots"
)

const (
	testHomeDirectoryConstant   = "/home/octocat"
	testSubtestTemplateConstant = "%d_%s"
)

func TestResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		configuredRoots []string
		homeError       error
		expectedRoots   []string
		expectError     bool
	}{
		{
			name:            "arguments_override_configuration",
			arguments:       []string{"/srv/one", " /srv/two "},
			configuredRoots: []string{"/srv/configured"},
			expectedRoots:   []string{"/srv/one", "/srv/two"},
		},
		{
			name:            "configuration_used_without_arguments",
			configuredRoots: []string{"/srv/configured", ""},
			expectedRoots:   []string{"/srv/configured"},
		},
		{
			name:          "home_shortcuts_expanded",
			arguments:     []string{"~", "~/code"},
			expectedRoots: []string{testHomeDirectoryConstant, filepath.Join(testHomeDirectoryConstant, "code")},
		},
		{
			name:          "duplicates_removed",
			arguments:     []string{"/srv/one", "/srv/one"},
			expectedRoots: []string{"/srv/one"},
		},
		{
			name:          "home_lookup_failure_keeps_input",
			arguments:     []string{"~/code"},
			homeError:     errors.New("no home"),
			expectedRoots: []string{"~/code"},
		},
		{
			name:            "missing_roots_rejected",
			arguments:       []string{" "},
			configuredRoots: nil,
			expectError:     true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			resolver := roots.NewResolver(func() (string, error) {
				return testHomeDirectoryConstant, testCase.homeError
			})

			command := &cobra.Command{Use: "prune-merged"}
			command.SetOut(io.Discard)

			resolvedRoots, resolveError := resolver.Resolve(command, testCase.arguments, testCase.configuredRoots)
			if testCase.expectError {
				require.ErrorIs(testInstance, resolveError, roots.ErrNoRoots)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedRoots, resolvedRoots)
		})
	}
}
