package branches

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	modeFlagTypeConstant            = "mode"
	unsupportedModeTemplateConstant = "unsupported mode %q (expected one of %s)"
	modeListSeparatorConstant       = ", "
)

// Mode selects how candidates are disposed of.
type Mode string

// Disposition modes.
const (
	ModeList        Mode = Mode("list")
	ModeForce       Mode = Mode("force")
	ModeInteractive Mode = Mode("interactive")
)

var supportedModes = []Mode{ModeList, ModeForce, ModeInteractive}

// ParseMode converts text into a Mode, ignoring case and surrounding whitespace.
func ParseMode(value string) (Mode, error) {
	normalized := Mode(strings.ToLower(strings.TrimSpace(value)))
	for _, supported := range supportedModes {
		if normalized == supported {
			return supported, nil
		}
	}
	return "", fmt.Errorf(unsupportedModeTemplateConstant, value, SupportedModesDescription())
}

// SupportedModesDescription lists the accepted mode names.
func SupportedModesDescription() string {
	names := make([]string, 0, len(supportedModes))
	for _, supported := range supportedModes {
		names = append(names, string(supported))
	}
	return strings.Join(names, modeListSeparatorConstant)
}

type modeFlagValue struct {
	mode *Mode
}

var _ pflag.Value = (*modeFlagValue)(nil)

func newModeFlagValue(target *Mode, defaultMode Mode) *modeFlagValue {
	*target = defaultMode
	return &modeFlagValue{mode: target}
}

func (value *modeFlagValue) String() string {
	if value == nil || value.mode == nil {
		return ""
	}
	return string(*value.mode)
}

func (value *modeFlagValue) Set(raw string) error {
	parsed, parseError := ParseMode(raw)
	if parseError != nil {
		return parseError
	}
	*value.mode = parsed
	return nil
}

func (value *modeFlagValue) Type() string {
	return modeFlagTypeConstant
}
