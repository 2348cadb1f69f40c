package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix       = "<"
	choicePlaceholderSuffix       = ">"
	choiceSeparatorLiteral        = "|"
	choiceUsageEmptyTemplate      = "`%s`"
	choiceUsageFullTemplate       = "`%s` %s"
	choiceTypeName                = "choice"
	unsupportedChoiceTemplate     = "unsupported value %q, expected one of %s"
	choiceListSeparatorForMessage = ", "
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefix + strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// ChoiceValue is a pflag.Value restricted to a fixed set of case-insensitive options.
// The stored value is always the lowercase form of the accepted option.
type ChoiceValue struct {
	value   string
	choices []string
}

// NewChoiceValue constructs a ChoiceValue holding defaultChoice.
func NewChoiceValue(defaultChoice string, choices []string) *ChoiceValue {
	normalizedChoices := make([]string, 0, len(choices))
	for _, choice := range choices {
		if normalized := normalizeChoice(choice); len(normalized) > 0 {
			normalizedChoices = append(normalizedChoices, normalized)
		}
	}
	return &ChoiceValue{value: normalizeChoice(defaultChoice), choices: normalizedChoices}
}

// String returns the current value.
func (choiceValue *ChoiceValue) String() string {
	if choiceValue == nil {
		return ""
	}
	return choiceValue.value
}

// Set validates and stores candidate.
func (choiceValue *ChoiceValue) Set(candidate string) error {
	normalized := normalizeChoice(candidate)
	for _, choice := range choiceValue.choices {
		if choice == normalized {
			choiceValue.value = normalized
			return nil
		}
	}
	return fmt.Errorf(unsupportedChoiceTemplate, candidate, strings.Join(choiceValue.choices, choiceListSeparatorForMessage))
}

// Type reports the pflag type name.
func (choiceValue *ChoiceValue) Type() string {
	return choiceTypeName
}

func normalizeChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := normalizeChoice(defaultChoice)
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := normalizeChoice(choice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}
