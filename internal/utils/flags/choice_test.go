package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "console",
			choices:        []string{"console", "yaml"},
			description:    "Report format.",
			expectedOutput: "`<CONSOLE|yaml>` Report format.",
		},
		{
			name:           "DefaultMiddleChoice",
			defaultChoice:  "gh",
			choices:        []string{"auto", "gh", "api", "none"},
			description:    "Merge evidence backend.",
			expectedOutput: "`<auto|GH|api|none>` Merge evidence backend.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "auto",
			choices:        []string{"auto", "none"},
			description:    "",
			expectedOutput: "`<AUTO|none>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "yaml",
			choices:        []string{"yaml", "yaml", "console", "console"},
			description:    "Select between options.",
			expectedOutput: "`<YAML|console>` Select between options.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "console",
			choices:        []string{" console ", " yaml "},
			description:    "Pick a format.",
			expectedOutput: "`<CONSOLE|yaml>` Pick a format.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestChoiceValue(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedValue string
		expectError   bool
	}{
		{
			name:          "AcceptsListedChoice",
			input:         "yaml",
			expectedValue: "yaml",
		},
		{
			name:          "NormalizesCaseAndWhitespace",
			input:         " YAML ",
			expectedValue: "yaml",
		},
		{
			name:          "RejectsUnknownChoice",
			input:         "json",
			expectedValue: "console",
			expectError:   true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			var target string
			value := NewChoiceValue(&target, "Console", []string{"console", "yaml"})
			require.Equal(t, "console", value.String())
			require.Equal(t, "choice", value.Type())

			setError := value.Set(testCase.input)
			if testCase.expectError {
				require.Error(t, setError)
			} else {
				require.NoError(t, setError)
			}
			require.Equal(t, testCase.expectedValue, target)
		})
	}
}
