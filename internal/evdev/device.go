// Package evdev is a thin wrapper around github.com/holoplot/go-evdev
// for physical device enumeration, exclusive-grab and the raw event
// stream the Translator reads (§4.3's leaf dependency), grounded in the
// go-evdev usage shown by other_examples/speak-to-ai's evdev_provider.go
// and other_examples/asahi-map's keyboard-device.go.
package evdev

import (
	"fmt"
	"path/filepath"

	goevdev "github.com/holoplot/go-evdev"
)

// EventType/EventCode mirror evdev's own small integer identifiers so
// callers outside this package never need to import goevdev directly.
type EventType = goevdev.EvType
type EventCode = goevdev.EvCode

const (
	EvKey = goevdev.EV_KEY
	EvRel = goevdev.EV_REL
	EvAbs = goevdev.EV_ABS
	EvSyn = goevdev.EV_SYN
)

// The relative/absolute/button codes the Translator classifies events by
// (§4.5.1). Re-exported so translator never imports goevdev directly.
const (
	RelWheel      = goevdev.REL_WHEEL
	RelWheelHiRes = goevdev.REL_WHEEL_HI_RES
	RelHWheel     = goevdev.REL_HWHEEL

	AbsHat0X = goevdev.ABS_HAT0X
	AbsHat0Y = goevdev.ABS_HAT0Y
	AbsX     = goevdev.ABS_X
	AbsY     = goevdev.ABS_Y
	AbsRX    = goevdev.ABS_RX
	AbsRY    = goevdev.ABS_RY
	AbsZ     = goevdev.ABS_Z
	AbsRZ    = goevdev.ABS_RZ
	AbsWheel    = goevdev.ABS_WHEEL
	AbsMisc     = goevdev.ABS_MISC
	AbsPressure = goevdev.ABS_PRESSURE

	BtnTL2 = goevdev.BTN_TL2
	BtnTR2 = goevdev.BTN_TR2
)

// Event is one (type, code, value) triplet read from a device (§4.5.1).
type Event struct {
	Type  EventType
	Code  EventCode
	Value int32
}

// Info is a device's path and reported name, returned by Enumerate
// without holding the device open — enough for DeviceOrchestrator to
// match against configured profile device names before deciding which
// devices to actually open and grab.
type Info struct {
	Path string
	Name string
}

// Enumerate lists every /dev/input/event* node's path and reported name.
// Devices that fail to open or to report a name are skipped silently:
// their errors are discarded here and never reach the caller.
func Enumerate() ([]Info, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("evdev: enumerating /dev/input: %w", err)
	}

	infos := make([]Info, 0, len(paths))
	for _, path := range paths {
		dev, err := goevdev.Open(path)
		if err != nil {
			continue
		}
		name, err := dev.Name()
		dev.Close()
		if err != nil {
			continue
		}
		infos = append(infos, Info{Path: path, Name: name})
	}
	return infos, nil
}

// Device is one opened physical input device.
type Device struct {
	path string
	name string
	raw  *goevdev.InputDevice
}

// Open opens path and reads its reported name.
func Open(path string) (*Device, error) {
	raw, err := goevdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("evdev: opening %s: %w", path, err)
	}
	name, err := raw.Name()
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("evdev: reading name of %s: %w", path, err)
	}
	return &Device{path: path, name: name, raw: raw}, nil
}

func (d *Device) Path() string { return d.path }
func (d *Device) Name() string { return d.name }

// Grab requests exclusive access, per §4.3's GRAB_DEVICE setting — a
// refusal here is fatal for this device only, never for the daemon.
func (d *Device) Grab() error {
	if err := d.raw.Grab(); err != nil {
		return fmt.Errorf("evdev: grabbing %s: %w", d.path, err)
	}
	return nil
}

func (d *Device) Ungrab() error {
	return d.raw.Ungrab()
}

func (d *Device) Close() error {
	return d.raw.Close()
}

// ReadOne blocks until the next event, or returns an error on
// end-of-stream/device disconnect (§4.5.1, §7's "Stream read error /
// end-of-stream" taxonomy entry).
func (d *Device) ReadOne() (Event, error) {
	raw, err := d.raw.ReadOne()
	if err != nil {
		return Event{}, err
	}
	return Event{Type: raw.Type, Code: raw.Code, Value: raw.Value}, nil
}

// CapableAxes returns the ABS event codes the device declares support
// for, used to decide whether the optional tablet abs sink should mirror
// this device's absolute axes (§4.4).
func (d *Device) CapableAxes() []EventCode {
	return d.raw.CapableEvents(goevdev.EV_ABS)
}

// HasEventType reports whether the device declares any events of type t.
func (d *Device) HasEventType(t EventType) bool {
	for _, got := range d.raw.CapableTypes() {
		if got == t {
			return true
		}
	}
	return false
}

// AbsRange returns the device's declared [minimum, maximum] for one ABS
// axis code, used to size the optional tablet sink identically to the
// physical device it mirrors (§4.4).
func (d *Device) AbsRange(code EventCode) (min, max int32, ok bool) {
	infos, err := d.raw.AbsInfos()
	if err != nil {
		return 0, 0, false
	}
	info, found := infos[code]
	if !found {
		return 0, 0, false
	}
	return info.Minimum, info.Maximum, true
}
