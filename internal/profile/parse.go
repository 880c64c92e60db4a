package profile

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/makima-go/makima/internal/ids"
)

// rawDoc mirrors the three top-level sections of a profile file (§6).
type rawDoc struct {
	Remap    map[string][]string `toml:"remap"`
	Commands map[string][]string `toml:"commands"`
	Settings map[string]string   `toml:"settings"`
}

// ParseFile parses one profile file's bytes plus its base name (the file
// name without the .toml extension, used for §4.1 name parsing) into a
// Profile. warn receives non-fatal diagnostics (unknown settings,
// ambiguous name fields); an error aborts this profile per §7.
func ParseFile(baseName string, data []byte, warn func(string)) (Profile, error) {
	var doc rawDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", baseName, err)
	}

	settings, err := ParseSettings(doc.Settings, func(m string) { warn(baseName + ": " + m) })
	if err != nil {
		return Profile{}, err
	}

	custom := append([]uint16(nil), settings.CustomModifiers...)

	remap, chordCustom, err := parseBindings(doc.Remap, true, warn)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", baseName, err)
	}
	custom = append(custom, chordCustom...)

	commands, chordCustom2, err := parseBindings(doc.Commands, false, warn)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %q: %w", baseName, err)
	}
	custom = append(custom, chordCustom2...)

	deviceName, assoc := ParseProfileName(baseName, warn)

	defaultMods := ids.NewModSet(ids.DefaultModifierKeys...)
	customMods := ids.NewModSet(custom...)
	allCodes := append(append([]uint16(nil), defaultMods.Codes()...), customMods.Codes()...)

	return Profile{
		Name:            baseName,
		DeviceName:      deviceName,
		Associations:    assoc,
		RemapBindings:   remap,
		CommandBindings: commands,
		Settings:        settings,
		Modifiers: ModifierSets{
			Default: defaultMods,
			Custom:  customMods,
			All:     ids.NewModSet(allCodes...),
		},
	}, nil
}

// parseBindings parses one [remap]/[commands] section. isRemap selects
// whether right-hand-side tokens are parsed as key sequences (Emit) or
// kept as raw command strings (Spawn). It also returns every key code
// used on the left of a chord, which becomes part of a profile's custom
// modifier set (§3: "custom... plus any keys used on the left of a
// chord").
func parseBindings(section map[string][]string, isRemap bool, warn func(string)) (Bindings, []uint16, error) {
	out := make(Bindings, len(section))
	var chordMods []uint16

	for rawKey, rhs := range section {
		input, modKey, mods, err := parseBindingKey(rawKey)
		if err != nil {
			return nil, nil, fmt.Errorf("binding key %q: %w", rawKey, err)
		}
		chordMods = append(chordMods, mods...)

		var action ids.Action
		if isRemap {
			seq := make([]ids.Input, 0, len(rhs))
			for _, tok := range rhs {
				in, err := ids.ParseInputToken(tok)
				if err != nil {
					return nil, nil, fmt.Errorf("binding %q: %w", rawKey, err)
				}
				seq = append(seq, in)
			}
			action = ids.RemapAction(seq...)
		} else {
			action = ids.CommandAction(rhs...)
		}

		if out[input] == nil {
			out[input] = make(map[string]ids.Action)
		}
		out[input][modKey] = action
	}
	return out, chordMods, nil
}

// parseBindingKey parses a profile-file binding key: a plain input token,
// a dash-separated chord "MOD1-MOD2-...-INPUT", or a Hold-only binding
// "-INPUT" (§6). mods is the modifier codes found on the left (empty for
// both the plain and Hold-only forms).
func parseBindingKey(raw string) (input ids.Input, modKey string, mods []uint16, err error) {
	if strings.HasPrefix(raw, "-") {
		tok := strings.TrimPrefix(raw, "-")
		input, err = ids.ParseInputToken(tok)
		if err != nil {
			return ids.Input{}, "", nil, err
		}
		return input, holdKey, nil, nil
	}

	parts := strings.Split(raw, "-")
	inputTok := parts[len(parts)-1]
	input, err = ids.ParseInputToken(inputTok)
	if err != nil {
		return ids.Input{}, "", nil, err
	}

	if len(parts) == 1 {
		return input, emptyModsKey, nil, nil
	}

	mods = make([]uint16, 0, len(parts)-1)
	for _, m := range parts[:len(parts)-1] {
		code, ok := ids.KeyCodeByName(m)
		if !ok {
			return ids.Input{}, "", nil, fmt.Errorf("unknown modifier key %q", m)
		}
		mods = append(mods, code)
	}
	modSet := ids.NewModSet(mods...)
	return input, modSet.Key(), mods, nil
}
