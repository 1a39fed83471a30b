package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix    = "<"
	choicePlaceholderSuffix    = ">"
	choiceSeparatorLiteral     = "|"
	choiceUsageEmptyTemplate   = "`%s`"
	choiceUsageFullTemplate    = "`%s` %s"
	choiceFlagType             = "choice"
	unsupportedChoiceTemplate  = "unsupported value %q (expected one of %s)"
	choiceListDisplayDelimiter = ", "
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// ChoiceValue is a pflag.Value restricted to a fixed set of lowercase choices.
type ChoiceValue struct {
	target  *string
	choices []string
}

var _ pflag.Value = (*ChoiceValue)(nil)

// NewChoiceValue stores defaultChoice in target and accepts only the listed choices on Set.
func NewChoiceValue(target *string, defaultChoice string, choices []string) *ChoiceValue {
	normalizedChoices := make([]string, 0, len(choices))
	for _, choice := range choices {
		normalized := strings.ToLower(strings.TrimSpace(choice))
		if len(normalized) == 0 {
			continue
		}
		normalizedChoices = append(normalizedChoices, normalized)
	}
	*target = strings.ToLower(strings.TrimSpace(defaultChoice))
	return &ChoiceValue{target: target, choices: normalizedChoices}
}

// String returns the current choice.
func (value *ChoiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

// Set validates and stores a choice, ignoring case and surrounding whitespace.
func (value *ChoiceValue) Set(raw string) error {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, choice := range value.choices {
		if choice == normalized {
			*value.target = choice
			return nil
		}
	}
	return fmt.Errorf(unsupportedChoiceTemplate, raw, strings.Join(value.choices, choiceListDisplayDelimiter))
}

// Type reports the flag type shown in usage output.
func (value *ChoiceValue) Type() string {
	return choiceFlagType
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault && len(normalizedChoice) > 0 {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}
