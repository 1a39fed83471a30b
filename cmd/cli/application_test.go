package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branchsweep/cmd/cli"
)

const (
	testConfigurationFileNameConstant = "branchsweep.yaml"
	testEmptyRootConstant             = "empty-root"
)

func writeConfigurationFile(testInstance *testing.T, directory string, content string) string {
	testInstance.Helper()
	configurationPath := filepath.Join(directory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(content), 0o600))
	return configurationPath
}

func executeApplication(testInstance *testing.T, arguments ...string) (*cli.Application, string, error) {
	testInstance.Helper()
	application := cli.NewApplication()
	output := &bytes.Buffer{}
	application.RootCommand().SetOut(output)
	application.RootCommand().SetErr(output)
	application.SetArguments(arguments)
	executionError := application.Execute()
	return application, output.String(), executionError
}

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	content, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	var document struct {
		Common struct {
			LogLevel  string `yaml:"log_level"`
			LogFormat string `yaml:"log_format"`
		} `yaml:"common"`
		Tools struct {
			PruneMerged struct {
				Roots             []string `yaml:"roots"`
				Mode              string   `yaml:"mode"`
				Remote            string   `yaml:"remote"`
				IdentityConfigKey string   `yaml:"identity_config_key"`
				EvidenceSource    string   `yaml:"evidence_source"`
				ProtectedBranches []string `yaml:"protected_branches"`
				Output            string   `yaml:"output"`
			} `yaml:"prune_merged"`
			MainUpdate struct {
				Roots        []string `yaml:"roots"`
				RequireClean bool     `yaml:"require_clean"`
			} `yaml:"main_update"`
		} `yaml:"tools"`
	}
	require.NoError(testInstance, yaml.Unmarshal(content, &document))

	require.Equal(testInstance, "info", document.Common.LogLevel)
	require.Equal(testInstance, "structured", document.Common.LogFormat)
	require.Equal(testInstance, []string{"."}, document.Tools.PruneMerged.Roots)
	require.Equal(testInstance, "interactive", document.Tools.PruneMerged.Mode)
	require.Equal(testInstance, "origin", document.Tools.PruneMerged.Remote)
	require.Equal(testInstance, "github.user", document.Tools.PruneMerged.IdentityConfigKey)
	require.Equal(testInstance, "auto", document.Tools.PruneMerged.EvidenceSource)
	require.Equal(testInstance, []string{"main", "master"}, document.Tools.PruneMerged.ProtectedBranches)
	require.Equal(testInstance, "console", document.Tools.PruneMerged.Output)
	require.Equal(testInstance, []string{"."}, document.Tools.MainUpdate.Roots)
	require.True(testInstance, document.Tools.MainUpdate.RequireClean)

	content[0] = '#'
	reloaded, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, byte('#'), reloaded[0])
}

func TestApplicationRegistersSubcommands(testInstance *testing.T) {
	application := cli.NewApplication()
	registered := map[string]bool{}
	for _, subcommand := range application.RootCommand().Commands() {
		registered[subcommand.Name()] = true
	}
	require.True(testInstance, registered["prune-merged"])
	require.True(testInstance, registered["main-update"])
}

func TestApplicationLoadsConfigurationFile(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	emptyRoot := filepath.Join(temporaryDirectory, testEmptyRootConstant)
	require.NoError(testInstance, os.MkdirAll(emptyRoot, 0o755))

	configurationPath := writeConfigurationFile(testInstance, temporaryDirectory, `
common:
  log_level: error
tools:
  prune_merged:
    remote: " upstream "
    author: octocat
    evidence_source: none
    protected_branches: [develop]
    output: yaml
  main_update:
    require_clean: false
`)

	application, output, executionError := executeApplication(testInstance, "--config", configurationPath, "prune-merged", "--dry-run", emptyRoot)
	require.NoError(testInstance, executionError)

	configuration := application.Configuration()
	require.Equal(testInstance, "error", configuration.Common.LogLevel)
	require.Equal(testInstance, "upstream", configuration.Tools.PruneMerged.RemoteName)
	require.Equal(testInstance, "octocat", configuration.Tools.PruneMerged.Author)
	require.Equal(testInstance, "none", configuration.Tools.PruneMerged.EvidenceSource)
	require.Equal(testInstance, []string{"develop"}, configuration.Tools.PruneMerged.ProtectedBranches)
	require.Equal(testInstance, "interactive", configuration.Tools.PruneMerged.Mode)
	require.False(testInstance, configuration.Tools.MainUpdate.RequireClean)
	require.Equal(testInstance, []string{"."}, configuration.Tools.MainUpdate.RepositoryRoots)

	require.Contains(testInstance, output, "repositories: []")
}

func TestApplicationEnvironmentOverrides(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	emptyRoot := filepath.Join(temporaryDirectory, testEmptyRootConstant)
	require.NoError(testInstance, os.MkdirAll(emptyRoot, 0o755))
	configurationPath := writeConfigurationFile(testInstance, temporaryDirectory, "common:\n  log_level: error\n")

	testInstance.Setenv("BRANCHSWEEP_TOOLS_PRUNE_MERGED_PROTECTED_BRANCHES", "develop, release")
	testInstance.Setenv("BRANCHSWEEP_TOOLS_PRUNE_MERGED_EVIDENCE_SOURCE", "none")

	application, _, executionError := executeApplication(testInstance, "--config", configurationPath, "prune-merged", "--dry-run", "--author", "octocat", emptyRoot)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"develop", "release"}, application.Configuration().Tools.PruneMerged.ProtectedBranches)
	require.Equal(testInstance, "none", application.Configuration().Tools.PruneMerged.EvidenceSource)
}

func TestApplicationRejectsInvalidLogSettings(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "log_level", arguments: []string{"--log-level", "verbose", "main-update", testEmptyRootConstant}},
		{name: "log_format", arguments: []string{"--log-format", "xml", "main-update", testEmptyRootConstant}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, _, executionError := executeApplication(testInstance, testCase.arguments...)
			require.ErrorContains(testInstance, executionError, "unable to create logger")
		})
	}
}

func TestApplicationRejectsMissingConfigurationFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), "absent.yaml")
	_, _, executionError := executeApplication(testInstance, "--config", missingPath, "main-update")
	require.ErrorContains(testInstance, executionError, "unable to load configuration")
}

func TestApplicationVersionFlag(testInstance *testing.T) {
	_, output, executionError := executeApplication(testInstance, "--version")
	require.NoError(testInstance, executionError)
	require.Regexp(testInstance, `^branchsweep version: \S+\n$`, output)
}

func TestApplicationMainUpdateWithoutRepositories(testInstance *testing.T) {
	emptyRoot := filepath.Join(testInstance.TempDir(), testEmptyRootConstant)
	require.NoError(testInstance, os.MkdirAll(emptyRoot, 0o755))

	_, output, executionError := executeApplication(testInstance, "--log-level", "error", "main-update", emptyRoot)
	require.NoError(testInstance, executionError)
	require.Empty(testInstance, output)
}
