package environment

import (
	"context"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/makima-go/makima/internal/ids"
)

// activeWindowX11 opens a fresh X connection, reads the input-focus
// window's WM_CLASS property and returns the component after its first
// NUL: the NUL-separated WM_CLASS value is (instance, class), so this is
// the class name; this follows
// original_source/src/active_client.rs's X11 branch exactly (split at the
// first NUL, trim a trailing NUL), grounded in the
// `other_examples/resetti/internal-x11-client.go`'s getProperty/InternAtom
// pattern for the connection and property plumbing.
func activeWindowX11(ctx context.Context) (ids.Client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return "", fmt.Errorf("x11: connect: %w", err)
	}
	defer conn.Close()

	focus, err := xproto.GetInputFocus(conn).Reply()
	if err != nil {
		return "", fmt.Errorf("x11: get input focus: %w", err)
	}

	wmClassAtom, err := xproto.InternAtom(conn, false, uint16(len("WM_CLASS")), "WM_CLASS").Reply()
	if err != nil {
		return "", fmt.Errorf("x11: intern WM_CLASS: %w", err)
	}

	reply, err := xproto.GetProperty(conn, false, focus.Focus, wmClassAtom.Atom,
		xproto.AtomString, 0, 1<<20).Reply()
	if err != nil {
		return "", fmt.Errorf("x11: get WM_CLASS property: %w", err)
	}

	return ids.Client(parseWMClassInstance(reply.Value)), nil
}

// parseWMClassInstance extracts the part after the first NUL of a
// WM_CLASS value ("instance\x00class\x00"), i.e. the class half,
// trimming a trailing NUL. It returns "" when there is no NUL.
func parseWMClassInstance(value []byte) string {
	middle := -1
	for i, b := range value {
		if b == 0 {
			middle = i
			break
		}
	}
	if middle < 0 {
		return ""
	}
	rest := value[middle:]
	if len(rest) <= 1 {
		return ""
	}
	rest = rest[1:]
	if rest[len(rest)-1] == 0 {
		rest = rest[:len(rest)-1]
	}
	return string(rest)
}
