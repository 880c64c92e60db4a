package environment

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/makima-go/makima/internal/ids"
)

// activeWindowKDE shells out to kdotool, forwarded into the logged-in
// user's session as needed, exactly as original_source/src/active_client.rs's
// "KDE" branch does: `runuser <user> -c ...` when running as root, or
// `sh -c "systemd-run --user --scope -M <user>@ ..."` otherwise. Before
// spending a subprocess on kdotool it probes the session bus directly,
// failing fast when the bus address inherited by ensureSessionBus
// turns out not to answer.
func activeWindowKDE(ctx context.Context, user string, runningAsRoot bool) (ids.Client, error) {
	if user == "" {
		return "", fmt.Errorf("kde: no session user resolved (SUDO_USER/USER both unset)")
	}
	if addr := os.Getenv("DBUS_SESSION_BUS_ADDRESS"); addr != "" && !probeDBusIntrospectable(addr) {
		return "", fmt.Errorf("kde: session bus at %s did not respond to introspection", addr)
	}

	const query = "kdotool getactivewindow getwindowclassname"

	var cmd *exec.Cmd
	if runningAsRoot {
		cmd = exec.CommandContext(ctx, "runuser", user, "-c", query)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c",
			fmt.Sprintf("systemd-run --user --scope -M %s@ %s", user, query))
	}

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("kde: %w", err)
	}
	return ids.Client(strings.TrimSpace(string(out))), nil
}
