// Package ids defines the tagged-union identifiers shared across the
// profile store and the translator: input identifiers, actions and the
// active-window client type.
package ids

import "strconv"

// keyCodes maps the key-name tokens accepted in profile files to their
// Linux evdev key codes. It covers the letters, digits, punctuation,
// navigation, modifier and gamepad-button codes that show up in real
// makima-style profiles; codes outside this table can still be entered
// numerically via ParseInputToken's KEY_<n> fallback.
var keyCodes = map[string]uint16{
	"KEY_ESC": 1, "KEY_1": 2, "KEY_2": 3, "KEY_3": 4, "KEY_4": 5, "KEY_5": 6,
	"KEY_6": 7, "KEY_7": 8, "KEY_8": 9, "KEY_9": 10, "KEY_0": 11,
	"KEY_MINUS": 12, "KEY_EQUAL": 13, "KEY_BACKSPACE": 14, "KEY_TAB": 15,
	"KEY_Q": 16, "KEY_W": 17, "KEY_E": 18, "KEY_R": 19, "KEY_T": 20, "KEY_Y": 21,
	"KEY_U": 22, "KEY_I": 23, "KEY_O": 24, "KEY_P": 25,
	"KEY_LEFTBRACE": 26, "KEY_RIGHTBRACE": 27, "KEY_ENTER": 28, "KEY_LEFTCTRL": 29,
	"KEY_A": 30, "KEY_S": 31, "KEY_D": 32, "KEY_F": 33, "KEY_G": 34, "KEY_H": 35,
	"KEY_J": 36, "KEY_K": 37, "KEY_L": 38,
	"KEY_SEMICOLON": 39, "KEY_APOSTROPHE": 40, "KEY_GRAVE": 41, "KEY_LEFTSHIFT": 42,
	"KEY_BACKSLASH": 43, "KEY_Z": 44, "KEY_X": 45, "KEY_C": 46, "KEY_V": 47,
	"KEY_B": 48, "KEY_N": 49, "KEY_M": 50,
	"KEY_COMMA": 51, "KEY_DOT": 52, "KEY_SLASH": 53, "KEY_RIGHTSHIFT": 54,
	"KEY_KPASTERISK": 55, "KEY_LEFTALT": 56, "KEY_SPACE": 57, "KEY_CAPSLOCK": 58,
	"KEY_F1": 59, "KEY_F2": 60, "KEY_F3": 61, "KEY_F4": 62, "KEY_F5": 63,
	"KEY_F6": 64, "KEY_F7": 65, "KEY_F8": 66, "KEY_F9": 67, "KEY_F10": 68,
	"KEY_NUMLOCK": 69, "KEY_SCROLLLOCK": 70,
	"KEY_KP7": 71, "KEY_KP8": 72, "KEY_KP9": 73, "KEY_KPMINUS": 74,
	"KEY_KP4": 75, "KEY_KP5": 76, "KEY_KP6": 77, "KEY_KPPLUS": 78,
	"KEY_KP1": 79, "KEY_KP2": 80, "KEY_KP3": 81, "KEY_KP0": 82, "KEY_KPDOT": 83,
	"KEY_F11": 87, "KEY_F12": 88,
	"KEY_KPENTER": 96, "KEY_RIGHTCTRL": 97, "KEY_KPSLASH": 98, "KEY_SYSRQ": 99,
	"KEY_RIGHTALT": 100, "KEY_HOME": 102, "KEY_UP": 103, "KEY_PAGEUP": 104,
	"KEY_LEFT": 105, "KEY_RIGHT": 106, "KEY_END": 107, "KEY_DOWN": 108,
	"KEY_PAGEDOWN": 109, "KEY_INSERT": 110, "KEY_DELETE": 111,
	"KEY_MUTE": 113, "KEY_VOLUMEDOWN": 114, "KEY_VOLUMEUP": 115,
	"KEY_PAUSE": 119, "KEY_KPCOMMA": 121,
	"KEY_LEFTMETA": 125, "KEY_RIGHTMETA": 126, "KEY_COMPOSE": 127,
	"KEY_STOP": 128, "KEY_HELP": 138,
	"KEY_SLEEP": 142, "KEY_MAIL": 155, "KEY_BOOKMARKS": 156,
	"KEY_BACK": 158, "KEY_FORWARD": 159,
	"KEY_NEXTSONG": 163, "KEY_PLAYPAUSE": 164, "KEY_PREVIOUSSONG": 165,
	"KEY_STOPCD": 166, "KEY_HOMEPAGE": 172, "KEY_REFRESH": 173,
	"KEY_F13": 183, "KEY_F14": 184, "KEY_F15": 185, "KEY_F16": 186,
	"KEY_F17": 187, "KEY_F18": 188, "KEY_F19": 189, "KEY_F20": 190,
	"KEY_F21": 191, "KEY_F22": 192, "KEY_F23": 193, "KEY_F24": 194,
	"KEY_SEARCH": 217, "KEY_MEDIA": 226, "KEY_102ND": 86,

	// gamepad buttons (BTN_* codes), needed as plain mapped keys distinct
	// from the AxisKind-driven stick/trigger/d-pad pseudo-inputs.
	"BTN_SOUTH": 304, "BTN_EAST": 305, "BTN_NORTH": 307, "BTN_WEST": 308,
	"BTN_TL": 310, "BTN_TR": 311, "BTN_SELECT": 314, "BTN_START": 315,
	"BTN_MODE": 316, "BTN_THUMBL": 317, "BTN_THUMBR": 318,
	"BTN_0": 0x100, "BTN_1": 0x101, "BTN_2": 0x102, "BTN_3": 0x103,
	"BTN_LEFT": 0x110, "BTN_RIGHT": 0x111, "BTN_MIDDLE": 0x112,
	// reserved as KEY events but handled as analog trigger axes (§4.5.1);
	// kept here so a chord or alias can still reference them as plain keys.
	"BTN_TL2": 312, "BTN_TR2": 313,
}

var keyNames = func() map[uint16]string {
	m := make(map[uint16]string, len(keyCodes))
	for name, code := range keyCodes {
		m[code] = name
	}
	return m
}()

// KeyCodeByName resolves a profile-file key token ("KEY_A", "BTN_SOUTH", ...)
// to its evdev code. ok is false for unrecognised tokens.
func KeyCodeByName(name string) (code uint16, ok bool) {
	code, ok = keyCodes[name]
	return code, ok
}

// KeyName returns the canonical token for an evdev key code, or a numeric
// fallback ("KEY_<code>") for codes outside the known table — useful for
// log messages about keys the config never names directly.
func KeyName(code uint16) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	return "KEY_" + strconv.Itoa(int(code))
}

// DefaultModifierKeys is the fixed set of the seven standard modifier key
// codes every profile's mapped_modifiers.default set carries (§3).
var DefaultModifierKeys = []uint16{
	mustCode("KEY_LEFTSHIFT"), mustCode("KEY_LEFTCTRL"), mustCode("KEY_LEFTALT"),
	mustCode("KEY_RIGHTSHIFT"), mustCode("KEY_RIGHTCTRL"), mustCode("KEY_RIGHTALT"),
	mustCode("KEY_LEFTMETA"),
}

func mustCode(name string) uint16 {
	code, ok := keyCodes[name]
	if !ok {
		panic("ids: unknown default modifier " + name)
	}
	return code
}
