// Package launcher implements the Launcher of §4.6: forking detached
// child processes to run shell commands bound to inputs, respecting the
// invoking user's identity rather than whatever user the daemon itself
// runs as (grounded in original_source/src/active_client.rs's runuser/
// systemd-run split, which solves the identical "reach the logged-in
// user from a root-or-not process" problem for kdotool).
package launcher

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Launcher spawns the shell commands bound to Spawn actions (§4.5's
// Action::Spawn), detached from the daemon's own process tree so a
// misbehaving command never blocks translation.
type Launcher struct{}

// New constructs a Launcher. It carries no state: every Spawn call
// re-resolves the invoking user, since SUDO_USER/USER never change
// across the daemon's lifetime but re-reading them is cheap and keeps
// Spawn self-contained.
func New() *Launcher { return &Launcher{} }

// Spawn runs each command in commands, detached, as the logged-in user
// (§4.6). A command that fails to start is logged and skipped; it never
// aborts translation or the remaining commands in the sequence.
func (l *Launcher) Spawn(commands []string) {
	user, runningAsRoot, ok := resolveUser()
	if !ok {
		log.Warn().Msg("launcher: no SUDO_USER or USER in environment, declining to spawn")
		return
	}

	for _, command := range commands {
		if err := spawnOne(user, runningAsRoot, command); err != nil {
			log.Error().Err(err).Str("user", user).Str("command", command).Msg("launcher: spawn failed")
		}
	}
}

// resolveUser mirrors environment.sessionUser's SUDO_USER-else-USER
// resolution (§4.6 shares the same rule); it is duplicated rather than
// imported to keep this package independent of internal/environment,
// which has no reason to know about command launching.
func resolveUser() (user string, runningAsRoot bool, ok bool) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return sudoUser, true, true
	}
	if u := os.Getenv("USER"); u != "" {
		return u, false, true
	}
	return "", false, false
}

// spawnOne detaches command into its own session so it survives the
// daemon's own lifetime and exec's the platform-appropriate runner:
// runuser when the daemon runs as root (needing to drop to the real
// user), systemd-run --user --scope when it already runs as that user
// (needing only to escape the daemon's own cgroup/session).
func spawnOne(user string, runningAsRoot bool, command string) error {
	var cmd *exec.Cmd
	if runningAsRoot {
		cmd = exec.Command("runuser", user, "-c", command)
	} else {
		cmd = exec.Command("sh", "-c", "systemd-run --user --scope -M "+user+"@ "+command)
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer devNull.Close()
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	// Setsid puts the child in a new session, detached from the daemon's
	// controlling terminal and process group.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err
	}
	// Waited on in the background so the exited child is reaped instead of
	// lingering as a zombie; Spawn itself never blocks on the command.
	go func() { _ = cmd.Wait() }()
	return nil
}
