package ids

// Action is what a Binding resolves to: either a sequence of keys to emit
// or a sequence of shell commands to spawn (§3: "Action is either
// Emit(sequence of Key) or Spawn(sequence of shell command strings)").
type Action struct {
	Emit      []Input
	Spawn     []string
	IsCommand bool
}

func RemapAction(seq ...Input) Action   { return Action{Emit: seq} }
func CommandAction(cmds ...string) Action { return Action{Spawn: cmds, IsCommand: true} }

// Client identifies the desktop window class an EnvironmentProbe resolved
// the focused window to, or Default when probing fails or yields no match
// against any profile's associations (§4.2).
type Client string

const DefaultClient Client = "default"

func (c Client) IsDefault() bool { return c == "" || c == DefaultClient }
