// Package environment implements EnvironmentProbe (§4.2): detecting the
// session's desktop compositor once at startup and querying the focused
// window's class through the matching backend. Session-kind caching is
// cached behind a sync.Once the same way a desktop session-detector
// would; the per-backend query logic follows
// original_source/src/active_client.rs.
package environment

import (
	"os"
)

// sessionKind is the detected "server" this session runs under — the
// Rust source's Server::Connected(String) | Unsupported | Failed,
// collapsed to a closed enum since only four kinds are ever queried.
type sessionKind int

const (
	sessionUnsupported sessionKind = iota
	sessionHyprland
	sessionSway
	sessionKDEWayland
	sessionX11
)

// detectSessionKind mirrors original_source/src/udev_monitor.rs's
// launch_tasks XDG_SESSION_TYPE/XDG_CURRENT_DESKTOP matching, extended
// with the KDE-on-Wayland branch §4.2 names explicitly.
func detectSessionKind() sessionKind {
	session := os.Getenv("XDG_SESSION_TYPE")
	desktop := os.Getenv("XDG_CURRENT_DESKTOP")
	// Some display managers never set XDG_SESSION_TYPE; WAYLAND_DISPLAY
	// being non-empty is the same signal compositors themselves use to
	// tell a Wayland session from an X11 one.
	wayland := session == "wayland" || os.Getenv("WAYLAND_DISPLAY") != ""

	switch {
	case wayland && desktop == "Hyprland":
		return sessionHyprland
	case wayland && desktop == "sway":
		return sessionSway
	case wayland && containsKDE(desktop):
		return sessionKDEWayland
	case session == "x11":
		return sessionX11
	default:
		return sessionUnsupported
	}
}

func containsKDE(desktop string) bool {
	for _, part := range splitPlus(desktop) {
		if part == "KDE" {
			return true
		}
	}
	return false
}

// splitPlus splits XDG_CURRENT_DESKTOP's colon-separated desktop list
// per the freedesktop.org convention (e.g. "KDE:GNOME").
func splitPlus(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// sessionUser resolves the logged-in user to reach for session queries
// that must run in that user's context (KDE's kdotool), and whether the
// daemon itself is running as root (§4.6 shares this same resolution).
func sessionUser() (user string, runningAsRoot bool, ok bool) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return sudoUser, true, true
	}
	if u := os.Getenv("USER"); u != "" {
		return u, false, true
	}
	return "", false, false
}
