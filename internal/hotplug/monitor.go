// Package hotplug is a pure-Go kernel device hotplug monitor: it listens
// for kobject-uevent broadcasts over a raw AF_NETLINK socket, with no
// libudev/cgo dependency, filtered to the "input" subsystem for
// DeviceOrchestrator's re-enumeration trigger (§4.3). Grounded directly
// on other_examples/videonode's pkg/linuxav/hotplug/hotplug.go, adapted
// from video4linux/usb/sound subsystems to input devices and from
// syscall to golang.org/x/sys/unix.
package hotplug

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Device event actions (a subset of the kernel's kobject-uevent actions
// relevant to input device topology changes).
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionChange = "change"
)

// SubsystemInput is the only subsystem DeviceOrchestrator cares about.
const SubsystemInput = "input"

// netlinkKobjectUEvent is the netlink protocol family for kernel object
// events (NETLINK_KOBJECT_UEVENT).
const netlinkKobjectUEvent = 15

// Event is one parsed kernel uevent.
type Event struct {
	Action    string
	KObj      string
	Subsystem string
	DevName   string
	DevPath   string
	Env       map[string]string
}

// Monitor listens for kernel device events via netlink.
type Monitor struct {
	fd        int
	filters   map[string]struct{}
	filtersMu sync.RWMutex
}

// NewMonitor opens and binds the netlink socket. Failure here is fatal to
// the daemon (§4.3: "inability to create the hotplug socket is fatal").
func NewMonitor() (*Monitor, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, netlinkKobjectUEvent)
	if err != nil {
		return nil, err
	}

	addr := &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: 1}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &Monitor{fd: fd, filters: make(map[string]struct{})}, nil
}

// AddSubsystemFilter restricts delivered events to the given subsystem(s).
// With no filters added, every event passes through.
func (m *Monitor) AddSubsystemFilter(subsystem string) {
	m.filtersMu.Lock()
	m.filters[subsystem] = struct{}{}
	m.filtersMu.Unlock()
}

func (m *Monitor) Close() error {
	return unix.Close(m.fd)
}

// Run blocks, delivering filtered events to events until ctx is
// cancelled or a socket error occurs. events is closed on return.
func (m *Monitor) Run(ctx context.Context, events chan<- Event) error {
	defer close(events)

	buf := make([]byte, 8192)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tv := unix.Timeval{Sec: 1}
		if err := unix.SetsockoptTimeval(m.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
			return err
		}

		n, _, err := unix.Recvfrom(m.fd, buf, 0)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if n == 0 {
			continue
		}

		ev := ParseUEvent(buf[:n])
		if ev == nil {
			continue
		}

		m.filtersMu.RLock()
		filterCount := len(m.filters)
		_, matches := m.filters[ev.Subsystem]
		m.filtersMu.RUnlock()
		if filterCount > 0 && !matches {
			continue
		}

		select {
		case events <- *ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ParseUEvent parses a kernel uevent message of the form
// "ACTION@KOBJ\0KEY=VALUE\0...", optionally preceded by a libudev binary
// header that is skipped when present.
func ParseUEvent(data []byte) *Event {
	if len(data) == 0 {
		return nil
	}

	if bytes.HasPrefix(data, []byte("libudev")) {
		for i := 0; i < len(data)-1; i++ {
			if data[i] != 0 {
				continue
			}
			rest := data[i+1:]
			if idx := bytes.IndexByte(rest, '@'); idx > 0 && idx < 20 {
				data = rest
				break
			}
		}
	}

	parts := bytes.Split(data, []byte{0})
	if len(parts) < 1 || len(parts[0]) == 0 {
		return nil
	}

	header := string(parts[0])
	atIdx := strings.Index(header, "@")
	if atIdx < 1 {
		return nil
	}

	ev := &Event{Action: header[:atIdx], KObj: header[atIdx+1:], Env: make(map[string]string)}

	for _, part := range parts[1:] {
		if len(part) == 0 {
			continue
		}
		kv := string(part)
		eqIdx := strings.Index(kv, "=")
		if eqIdx < 1 {
			continue
		}
		key, value := kv[:eqIdx], kv[eqIdx+1:]
		ev.Env[key] = value
		switch key {
		case "SUBSYSTEM":
			ev.Subsystem = value
		case "DEVNAME":
			ev.DevName = value
		case "DEVPATH":
			ev.DevPath = value
		}
	}
	return ev
}
