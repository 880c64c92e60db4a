package environment

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

// ensureSessionBus guarantees DBUS_SESSION_BUS_ADDRESS is present in the
// daemon's own environment before any D-Bus-backed session query runs
// (§6: "If DBUS_SESSION_BUS_ADDRESS is missing, the orchestrator
// attempts to inherit the user's session environment by querying
// `systemctl --user show-environment`, optionally after synthesizing
// `unix:path=/run/user/<uid>/bus`"). This is the common case for a
// daemon started by a root systemd unit or udev rule, which never
// inherits the logged-in user's session bus the way a process launched
// from inside that session does.
func ensureSessionBus(ctx context.Context, sessionUser string, runningAsRoot bool) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return
	}
	if sessionUser == "" {
		return
	}

	if addr, err := queryShowEnvironment(ctx, sessionUser, runningAsRoot); err == nil && addr != "" {
		os.Setenv("DBUS_SESSION_BUS_ADDRESS", addr)
		log.Debug().Str("addr", addr).Msg("environment: inherited session bus address via systemctl --user show-environment")
		return
	}

	if addr, ok := synthesizeSessionBusAddr(sessionUser); ok {
		os.Setenv("DBUS_SESSION_BUS_ADDRESS", addr)
		log.Debug().Str("addr", addr).Msg("environment: synthesized session bus address")
	}
}

// queryShowEnvironment runs `systemctl --user show-environment` as
// sessionUser, forwarded the same way §4.6's Launcher reaches that
// user (`runuser` when the daemon itself runs as root, `systemd-run
// --user --scope` otherwise), and extracts DBUS_SESSION_BUS_ADDRESS
// from its KEY=VALUE-per-line output.
func queryShowEnvironment(ctx context.Context, sessionUser string, runningAsRoot bool) (string, error) {
	const query = "systemctl --user show-environment"

	var cmd *exec.Cmd
	if runningAsRoot {
		cmd = exec.CommandContext(ctx, "runuser", sessionUser, "-c", query)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c",
			fmt.Sprintf("systemd-run --user --scope -M %s@ %s", sessionUser, query))
	}

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("systemctl --user show-environment: %w", err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		name, value, ok := strings.Cut(line, "=")
		if ok && name == "DBUS_SESSION_BUS_ADDRESS" {
			return value, nil
		}
	}
	return "", fmt.Errorf("systemctl --user show-environment: no DBUS_SESSION_BUS_ADDRESS in output")
}

// synthesizeSessionBusAddr builds the well-known per-user bus socket
// path systemd-logind creates at /run/user/<uid>/bus, used when
// show-environment itself can't be reached (no user systemd instance
// running yet, or the query command is missing).
func synthesizeSessionBusAddr(sessionUser string) (string, bool) {
	u, err := user.Lookup(sessionUser)
	if err != nil {
		return "", false
	}
	return "unix:path=/run/user/" + u.Uid + "/bus", true
}

// probeDBusIntrospectable connects to addr and calls
// org.freedesktop.DBus.Introspectable.Introspect against the bus
// daemon itself, the same reachability check a portal client runs
// before trusting a freshly opened connection. Used to fail fast
// rather than shell out to a D-Bus-dependent client against a bus
// address that won't actually answer.
func probeDBusIntrospectable(addr string) bool {
	conn, err := dbus.Connect(addr)
	if err != nil {
		return false
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	return obj.Call("org.freedesktop.DBus.Introspectable.Introspect", 0).Err == nil
}
