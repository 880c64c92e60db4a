package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/makima-go/makima/internal/ids"
)

// ProfileSet is the non-empty collection of profiles sharing one physical
// device name, differing only in Associations (§3). It always contains a
// (Default, 0) profile, synthesized empty if the config directory didn't
// define one (invariant 4).
type ProfileSet struct {
	DeviceName string
	Profiles   []Profile
}

// Select returns the profile whose Associations exactly match
// (activeWindow, activeLayout), or the (Default, 0) fallback profile
// (§4.1).
func (ps ProfileSet) Select(activeWindow ids.Client, activeLayout uint16) Profile {
	for _, p := range ps.Profiles {
		if p.Associations.Client == activeWindow && p.Associations.Layout == activeLayout {
			return p
		}
	}
	return ps.Default()
}

// Default returns the set's mandatory (Default, 0) profile.
func (ps ProfileSet) Default() Profile {
	for _, p := range ps.Profiles {
		if p.Associations.IsDefault() {
			return p
		}
	}
	// Invariant 4 guarantees this is unreachable for a set built by
	// LoadDir (via ensureDefault), but fall back to an empty synthesized profile rather
	// than panicking if constructed by hand (e.g. in a test).
	return emptyDefaultProfile(ps.DeviceName)
}

func emptyDefaultProfile(deviceName string) Profile {
	// ParseSettings(nil, ...) cannot fail: there are no entries to
	// validate, so this is always DefaultSettings() untouched.
	s, _ := ParseSettings(nil, func(string) {})
	return Profile{
		Name:            deviceName,
		DeviceName:      deviceName,
		Associations:    Association{Client: ids.DefaultClient, Layout: 0},
		RemapBindings:   Bindings{},
		CommandBindings: Bindings{},
		Settings:        s,
		Modifiers: ModifierSets{
			Default: ids.NewModSet(ids.DefaultModifierKeys...),
			All:     ids.NewModSet(ids.DefaultModifierKeys...),
		},
	}
}

// ProfileStore indexes every parsed profile by device name (§4.1).
type ProfileStore struct {
	sets map[string]*ProfileSet
}

// Lookup returns the ProfileSet for a physical device name, or false if
// no profile file names that device.
func (s *ProfileStore) Lookup(deviceName string) (ProfileSet, bool) {
	set, ok := s.sets[deviceName]
	if !ok {
		return ProfileSet{}, false
	}
	return *set, true
}

// DeviceNames returns every device name the store has at least one
// profile for, used by DeviceOrchestrator's enumeration matching (§4.3).
func (s *ProfileStore) DeviceNames() []string {
	names := make([]string, 0, len(s.sets))
	for n := range s.sets {
		names = append(names, n)
	}
	return names
}

// NewStore builds a ProfileStore directly from already-assembled
// ProfileSets, keyed by device name. Exported for other packages'
// tests (e.g. internal/orchestrator's device-matching tests) that need
// a ProfileStore without parsing real TOML files.
func NewStore(sets map[string]ProfileSet) *ProfileStore {
	out := make(map[string]*ProfileSet, len(sets))
	for name, set := range sets {
		s := set
		out[name] = &s
	}
	return &ProfileStore{sets: out}
}

// LoadDir parses every non-hidden *.toml file directly inside dir into a
// ProfileStore (§6). A file that fails to parse is logged and skipped
// (§7's configuration-error taxonomy); if no profile survives, an error
// is returned so the caller can exit per §6's "0 only on no-config-
// directory or clean shutdown".
func LoadDir(dir string) (*ProfileStore, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("profile: reading config dir %q: %w", dir, err)
	}

	sets := make(map[string]*ProfileSet)
	loaded := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".toml") {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("profile: skipping unreadable file")
			continue
		}
		base := strings.TrimSuffix(name, ".toml")
		p, err := ParseFile(base, data, func(msg string) {
			log.Warn().Str("file", path).Msg("profile: " + msg)
		})
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("profile: skipping unparsable profile")
			continue
		}

		set, ok := sets[p.DeviceName]
		if !ok {
			set = &ProfileSet{DeviceName: p.DeviceName}
			sets[p.DeviceName] = set
		}
		set.Profiles = append(set.Profiles, p)
		loaded++
	}

	for _, set := range sets {
		ensureDefault(set)
	}

	if loaded == 0 {
		return nil, fmt.Errorf("profile: no valid profiles found in %q", dir)
	}
	return &ProfileStore{sets: sets}, nil
}

func ensureDefault(set *ProfileSet) {
	for _, p := range set.Profiles {
		if p.Associations.IsDefault() {
			return
		}
	}
	set.Profiles = append(set.Profiles, emptyDefaultProfile(set.DeviceName))
}

// ConfigDir resolves the MAKIMA_CONFIG environment variable, falling back
// to $HOME/.config/makima with HOME resolved via SUDO_USER when the
// process is running under sudo (§6).
func ConfigDir() (string, error) {
	if dir := os.Getenv("MAKIMA_CONFIG"); dir != "" {
		return dir, nil
	}
	home, err := resolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "makima"), nil
}

func resolveHome() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return filepath.Join("/home", sudoUser), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	return "", fmt.Errorf("profile: cannot resolve HOME (SUDO_USER and HOME both unset)")
}
