package ids

import "fmt"

// AxisKind enumerates the pseudo-digital inputs synthesised from analog
// and d-pad axis events (§3, §4.5.1). Profile files reference these with
// the same textual tokens as a plain key (e.g. "LSTICK_UP") so Binding
// keys are the same Input type regardless of origin.
type AxisKind int

const (
	AxisNone AxisKind = iota
	DpadUp
	DpadDown
	DpadLeft
	DpadRight
	LStickUp
	LStickDown
	LStickLeft
	LStickRight
	RStickUp
	RStickDown
	RStickLeft
	RStickRight
	ScrollWheelUp
	ScrollWheelDown
	TriggerLeft
	TriggerRight
	AbsWheelCW
	AbsWheelCCW
)

var axisTokens = map[AxisKind]string{
	DpadUp: "BTN_DPAD_UP", DpadDown: "BTN_DPAD_DOWN",
	DpadLeft: "BTN_DPAD_LEFT", DpadRight: "BTN_DPAD_RIGHT",
	LStickUp: "LSTICK_UP", LStickDown: "LSTICK_DOWN",
	LStickLeft: "LSTICK_LEFT", LStickRight: "LSTICK_RIGHT",
	RStickUp: "RSTICK_UP", RStickDown: "RSTICK_DOWN",
	RStickLeft: "RSTICK_LEFT", RStickRight: "RSTICK_RIGHT",
	ScrollWheelUp: "SCROLL_WHEEL_UP", ScrollWheelDown: "SCROLL_WHEEL_DOWN",
	TriggerLeft: "BTN_TL2", TriggerRight: "BTN_TR2",
	AbsWheelCW: "ABS_WHEEL_CW", AbsWheelCCW: "ABS_WHEEL_CCW",
}

var axisByToken = func() map[string]AxisKind {
	m := make(map[string]AxisKind, len(axisTokens))
	for k, v := range axisTokens {
		m[v] = k
	}
	return m
}()

func (a AxisKind) String() string {
	if s, ok := axisTokens[a]; ok {
		return s
	}
	return "AXIS_NONE"
}

// AxisKindByToken resolves a profile-file axis token to its AxisKind.
func AxisKindByToken(tok string) (AxisKind, bool) {
	k, ok := axisByToken[tok]
	return k, ok
}

// InputOrigin distinguishes a physical key code from a synthesised axis
// pseudo-input; both are carried in Input so Binding maps can key on one
// uniform type (§3's Input tagged union).
type InputOrigin int

const (
	OriginKey InputOrigin = iota
	OriginAxis
)

// Input is the tagged union of "whatever produced a logical press/release":
// a literal evdev key code, or one of the synthesised AxisKind pseudo-keys.
type Input struct {
	Origin InputOrigin
	Key    uint16
	Axis   AxisKind
}

func KeyInput(code uint16) Input   { return Input{Origin: OriginKey, Key: code} }
func AxisInput(a AxisKind) Input   { return Input{Origin: OriginAxis, Axis: a} }

func (i Input) String() string {
	if i.Origin == OriginAxis {
		return i.Axis.String()
	}
	return KeyName(i.Key)
}

// Token returns the canonical profile-file spelling for this input,
// identical to String but named for call sites that parse profile text
// rather than format a log line.
func (i Input) Token() string { return i.String() }

// ParseInputToken parses a single profile-file input token into an Input,
// accepting both key names ("KEY_A") and axis pseudo-key names
// ("LSTICK_UP"). Numeric fallback ("KEY_42") allows codes absent from the
// static table.
func ParseInputToken(tok string) (Input, error) {
	if axis, ok := axisByToken[tok]; ok {
		return AxisInput(axis), nil
	}
	if code, ok := keyCodes[tok]; ok {
		return KeyInput(code), nil
	}
	var n uint16
	if _, err := fmt.Sscanf(tok, "KEY_%d", &n); err == nil {
		return KeyInput(n), nil
	}
	return Input{}, fmt.Errorf("ids: unrecognised input token %q", tok)
}

// Hold is the sentinel binding value meaning "this input only participates
// in chords; on its own it does nothing" (§4.5.3's Hold chain rule).
const Hold = "HOLD"
