package profile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/makima-go/makima/internal/ids"
)

// StickMode is the LSTICK/RSTICK setting value (§6).
type StickMode string

const (
	StickCursor StickMode = "cursor"
	StickScroll StickMode = "scroll"
	StickBind   StickMode = "bind"
)

// Settings is the parsed, defaulted [settings] section of a profile file
// (§6's option table).
type Settings struct {
	LStickMode, RStickMode               StickMode
	LStickSensitivity, RStickSensitivity time.Duration
	LStickDeadzone, RStickDeadzone       int
	LStickActivationMods, RStickActivationMods ids.ModSet
	CustomModifiers                      []uint16
	Axis16Bit                            bool
	InvertCursorAxis, InvertScrollAxis   bool
	ChainOnly                            bool
	LayoutSwitcher                       uint16
	NotifyLayoutSwitch                   bool
	GrabDevice                           bool
}

// DefaultSettings returns the §6 defaults before any [settings] overrides
// are applied.
func DefaultSettings() Settings {
	btn0, _ := ids.KeyCodeByName("BTN_0")
	return Settings{
		LStickMode:        StickCursor,
		RStickMode:        StickScroll,
		LStickDeadzone:    5,
		RStickDeadzone:    5,
		ChainOnly:         true,
		LayoutSwitcher:    btn0,
		GrabDevice:        true,
	}
}

// ParseSettings applies the raw [settings] string map onto the §6
// defaults, validating every recognised option. Unknown options are
// reported to warnings but do not abort parsing; invalid values for a
// recognised option are returned as an error, which aborts the whole
// profile per §7's configuration-error taxonomy.
func ParseSettings(raw map[string]string, warn func(msg string)) (Settings, error) {
	s := DefaultSettings()
	for key, val := range raw {
		var err error
		switch key {
		case "LSTICK":
			s.LStickMode, err = parseStickMode(val)
		case "RSTICK":
			s.RStickMode, err = parseStickMode(val)
		case "LSTICK_SENSITIVITY":
			s.LStickSensitivity, err = parseMillis(val)
		case "RSTICK_SENSITIVITY":
			s.RStickSensitivity, err = parseMillis(val)
		case "LSTICK_DEADZONE":
			s.LStickDeadzone, err = parseDeadzone(val)
		case "RSTICK_DEADZONE":
			s.RStickDeadzone, err = parseDeadzone(val)
		case "LSTICK_ACTIVATION_MODIFIERS":
			s.LStickActivationMods, err = parseChordMods(val)
		case "RSTICK_ACTIVATION_MODIFIERS":
			s.RStickActivationMods, err = parseChordMods(val)
		case "CUSTOM_MODIFIERS":
			s.CustomModifiers, err = parseKeyList(val)
		case "AXIS_16_BIT":
			s.Axis16Bit, err = strconv.ParseBool(val)
		case "INVERT_CURSOR_AXIS":
			s.InvertCursorAxis, err = strconv.ParseBool(val)
		case "INVERT_SCROLL_AXIS":
			s.InvertScrollAxis, err = strconv.ParseBool(val)
		case "CHAIN_ONLY":
			s.ChainOnly, err = strconv.ParseBool(val)
		case "LAYOUT_SWITCHER":
			code, ok := ids.KeyCodeByName(val)
			if !ok {
				err = fmt.Errorf("unknown key name %q", val)
			}
			s.LayoutSwitcher = code
		case "NOTIFY_LAYOUT_SWITCH":
			s.NotifyLayoutSwitch, err = strconv.ParseBool(val)
		case "GRAB_DEVICE":
			s.GrabDevice, err = strconv.ParseBool(val)
		default:
			warn(fmt.Sprintf("unrecognised setting %q ignored", key))
			continue
		}
		if err != nil {
			return Settings{}, fmt.Errorf("profile: invalid value %q for setting %q: %w", val, key, err)
		}
	}
	return s, nil
}

func parseStickMode(val string) (StickMode, error) {
	switch StickMode(val) {
	case StickCursor, StickScroll, StickBind:
		return StickMode(val), nil
	default:
		return "", fmt.Errorf("must be one of cursor, scroll, bind")
	}
}

func parseMillis(val string) (time.Duration, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

func parseDeadzone(val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 128 {
		return 0, fmt.Errorf("deadzone must be in 0..128, got %d", n)
	}
	return n, nil
}

func parseKeyList(val string) ([]uint16, error) {
	if val == "" {
		return nil, nil
	}
	parts := strings.Split(val, "-")
	out := make([]uint16, 0, len(parts))
	for _, p := range parts {
		code, ok := ids.KeyCodeByName(p)
		if !ok {
			return nil, fmt.Errorf("unknown key name %q", p)
		}
		out = append(out, code)
	}
	return out, nil
}

func parseChordMods(val string) (ids.ModSet, error) {
	codes, err := parseKeyList(val)
	if err != nil {
		return ids.ModSet{}, err
	}
	return ids.NewModSet(codes...), nil
}
