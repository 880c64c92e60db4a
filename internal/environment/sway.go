package environment

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/makima-go/makima/internal/ids"
)

// swayMagic is the fixed 6-byte preamble of every i3-ipc frame.
const swayMagic = "i3-ipc"

// swayGetTree is the i3ipc message type requesting the window tree.
const swayGetTree = 4

// swayNode is the subset of a sway tree node this probe reads: enough to
// find the focused leaf and read its app_id (Wayland-native) or X11
// window class (XWayland), grounded in original_source/src/active_client.rs's
// Sway branch (`find_focused`, `app_id`, `window_properties.class`).
type swayNode struct {
	Focused          bool       `json:"focused"`
	AppID            *string    `json:"app_id"`
	WindowProperties *swayWinProps `json:"window_properties"`
	Nodes            []swayNode `json:"nodes"`
	FloatingNodes     []swayNode `json:"floating_nodes"`
}

type swayWinProps struct {
	Class *string `json:"class"`
}

func (n swayNode) findFocused() (swayNode, bool) {
	if n.Focused {
		return n, true
	}
	for _, children := range [][]swayNode{n.Nodes, n.FloatingNodes} {
		for _, child := range children {
			if found, ok := child.findFocused(); ok {
				return found, true
			}
		}
	}
	return swayNode{}, false
}

// activeWindowSway opens the sway IPC socket, requests the window tree
// and returns the focused node's app_id (or its X11 class when running
// through XWayland).
func activeWindowSway(ctx context.Context) (ids.Client, error) {
	sockPath, err := swaySocketPath()
	if err != nil {
		return "", err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", sockPath)
	if err != nil {
		return "", fmt.Errorf("sway ipc: dial %s: %w", sockPath, err)
	}
	defer conn.Close()

	queryID := uuid.NewString()
	log.Debug().Str("query_id", queryID).Msg("environment: sway ipc get_tree")

	if err := swayWriteFrame(conn, swayGetTree, nil); err != nil {
		return "", fmt.Errorf("sway ipc: write request: %w", err)
	}
	msgType, payload, err := swayReadFrame(conn)
	if err != nil {
		return "", fmt.Errorf("sway ipc: read reply: %w", err)
	}
	if msgType != swayGetTree {
		return "", fmt.Errorf("sway ipc: unexpected reply type %d", msgType)
	}

	var root swayNode
	if err := json.Unmarshal(payload, &root); err != nil {
		return "", fmt.Errorf("sway ipc: parsing tree: %w", err)
	}

	focused, ok := root.findFocused()
	if !ok {
		return ids.DefaultClient, nil
	}
	if focused.AppID != nil {
		return ids.Client(*focused.AppID), nil
	}
	if focused.WindowProperties != nil && focused.WindowProperties.Class != nil {
		return ids.Client(*focused.WindowProperties.Class), nil
	}
	return ids.DefaultClient, nil
}

func swaySocketPath() (string, error) {
	if p := os.Getenv("SWAYSOCK"); p != "" {
		return p, nil
	}
	out, err := exec.Command("sway", "--get-socketpath").Output()
	if err != nil {
		return "", fmt.Errorf("sway ipc: SWAYSOCK unset and `sway --get-socketpath` failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func swayWriteFrame(conn net.Conn, msgType uint32, payload []byte) error {
	header := make([]byte, len(swayMagic)+8)
	copy(header, swayMagic)
	binary.LittleEndian.PutUint32(header[len(swayMagic):], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[len(swayMagic)+4:], msgType)
	if _, err := conn.Write(header); err != nil {
		return err
	}
	if len(payload) > 0 {
		_, err := conn.Write(payload)
		return err
	}
	return nil
}

func swayReadFrame(conn net.Conn) (msgType uint32, payload []byte, err error) {
	header := make([]byte, len(swayMagic)+8)
	if _, err := readFull(conn, header); err != nil {
		return 0, nil, err
	}
	if string(header[:len(swayMagic)]) != swayMagic {
		return 0, nil, fmt.Errorf("bad magic %q", header[:len(swayMagic)])
	}
	length := binary.LittleEndian.Uint32(header[len(swayMagic):])
	msgType = binary.LittleEndian.Uint32(header[len(swayMagic)+4:])
	payload = make([]byte, length)
	if _, err := readFull(conn, payload); err != nil {
		return 0, nil, err
	}
	return msgType, payload, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
