// Package orchestrator implements DeviceOrchestrator (§4.3): matching
// physical evdev devices to profiles at startup and at hotplug time,
// grabbing and translating each matched device, and restarting the
// whole enumeration when device topology changes in a way that could
// affect a mapped device: a long-running Run(ctx) that owns a
// generation of worker goroutines and tears the whole generation down
// before starting the next, the same shape as a restart-on-exit worker
// supervisor.
package orchestrator

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/makima-go/makima/internal/environment"
	"github.com/makima-go/makima/internal/evdev"
	"github.com/makima-go/makima/internal/hotplug"
	"github.com/makima-go/makima/internal/launcher"
	"github.com/makima-go/makima/internal/profile"
	"github.com/makima-go/makima/internal/translator"
	"github.com/makima-go/makima/internal/vsink"
)

// Orchestrator owns one generation of grabbed devices and their
// Translators at a time, restarting the whole generation on topology
// change or config reload (§4.3, §5's cancellation semantics: "the three
// sub-tasks are aborted simultaneously... hot re-enumeration after abort
// must re-acquire the kernel fd").
type Orchestrator struct {
	probe   *environment.Probe
	monitor *hotplug.Monitor
}

// New constructs an Orchestrator around an already-opened hotplug
// Monitor; failure to open that socket is fatal to the daemon and
// handled by the caller before New is ever reached (§4.3's "inability to
// create the hotplug socket is fatal").
func New(probe *environment.Probe, monitor *hotplug.Monitor) *Orchestrator {
	return &Orchestrator{probe: probe, monitor: monitor}
}

// Run enumerates and grabs matching devices against the current
// contents of store, re-running the whole cycle on every hotplug event
// that touches the input subsystem and on every signal received on
// reload (a profile directory change, when --watch-config is enabled).
// Run blocks until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, store *profile.ProfileStore, reload <-chan *profile.ProfileStore) {
	events := make(chan hotplug.Event, 16)
	o.monitor.AddSubsystemFilter(hotplug.SubsystemInput)

	monitorCtx, cancelMonitor := context.WithCancel(ctx)
	defer cancelMonitor()
	go func() {
		if err := o.monitor.Run(monitorCtx, events); err != nil && monitorCtx.Err() == nil {
			log.Error().Err(err).Msg("orchestrator: hotplug monitor stopped")
		}
	}()

	for {
		genCtx, cancelGen := context.WithCancel(ctx)
		var wg sync.WaitGroup
		o.startGeneration(genCtx, &wg, store)

		select {
		case <-ctx.Done():
			cancelGen()
			wg.Wait()
			return

		case ev, ok := <-events:
			if !ok {
				cancelGen()
				wg.Wait()
				return
			}
			if !topologyAffectsMapped(ev, store) {
				continue
			}
			log.Info().Str("action", ev.Action).Str("device", ev.DevName).Msg("orchestrator: mapped-device topology change, re-enumerating")
			cancelGen()
			wg.Wait()

		case newStore, ok := <-reload:
			if !ok {
				cancelGen()
				wg.Wait()
				return
			}
			log.Info().Msg("orchestrator: profile directory changed, re-enumerating")
			store = newStore
			cancelGen()
			wg.Wait()
		}
	}
}

// topologyAffectsMapped reports whether ev should trigger re-enumeration.
// It returns true when ev's DevName or KObj contains a device name the
// store has a profile for, and also when neither contains any such name
// (see below), so every input-subsystem event currently re-enumerates.
func topologyAffectsMapped(ev hotplug.Event, store *profile.ProfileStore) bool {
	for _, name := range store.DeviceNames() {
		if strings.Contains(ev.DevName, name) || strings.Contains(ev.KObj, name) {
			return true
		}
	}
	// A coarse netlink uevent rarely carries the human-readable device
	// name at all (DEVNAME is usually "input/eventN"); when it doesn't
	// match anything textually, re-enumerate anyway and let
	// startGeneration's matchProfile filter by the opened device's
	// actual reported name — missing a real hotplug is worse than one
	// spurious scan.
	return true
}

// generation is one cycle's virtual sinks and running Translators, torn
// down together when the cycle ends. Per-device cleanup (ungrab, close)
// is Translator.Close's job; generation only needs to reach every
// Translator and the sinks they share.
type generation struct {
	sinks *vsink.Sinks
	trs   []*translator.Translator
}

// startGeneration enumerates devices, matches them against store,
// assembles a ProfileSet per match, grabs and spawns a Translator for
// each, and arranges for the whole generation to close its devices and
// sinks when genCtx is cancelled (§4.3's start(profiles) operation).
func (o *Orchestrator) startGeneration(genCtx context.Context, wg *sync.WaitGroup, store *profile.ProfileStore) {
	infos, err := evdev.Enumerate()
	if err != nil {
		log.Error().Err(err).Msg("orchestrator: enumerating devices failed")
		return
	}

	gen := &generation{}
	launch := launcher.New()

	for _, info := range infos {
		set, ps, ok := matchProfile(info.Name, store)
		if !ok {
			continue
		}

		dev, err := evdev.Open(info.Path)
		if err != nil {
			log.Warn().Err(err).Str("device", info.Name).Msg("orchestrator: failed to open matched device")
			continue
		}

		if ps.Settings.GrabDevice {
			if err := dev.Grab(); err != nil {
				log.Warn().Err(err).Str("device", info.Name).Msg("orchestrator: failed to grab device, skipping")
				dev.Close()
				continue
			}
		}

		sinks, err := gen.ensureSinks(dev)
		if err != nil {
			log.Fatal().Err(err).Str("device", info.Name).Msg("orchestrator: failed to create virtual sinks")
		}

		tr := translator.New(genCtx, dev, sinks, set, o.probe, launch)
		gen.trs = append(gen.trs, tr)

		wg.Add(1)
		go func(t *translator.Translator, name string) {
			defer wg.Done()
			log.Info().Str("device", name).Msg("orchestrator: translator starting")
			t.Run()
			log.Info().Str("device", name).Msg("orchestrator: translator stopped")
		}(tr, info.Name)
	}

	go func() {
		<-genCtx.Done()
		for _, tr := range gen.trs {
			tr.Close()
		}
		if gen.sinks != nil {
			_ = gen.sinks.Close()
		}
	}()
}

// ensureSinks lazily creates the generation's shared virtual sinks on the
// first matched device, sized against that device's own abs range if it
// declares ABS_X/ABS_Y (the optional tablet sink, §4.4). Every
// subsequent Translator in the generation shares the same Sinks
// instance: the keyboard/pointer endpoints are one set per generation,
// not per-device, and are recreated when the next generation starts.
func (g *generation) ensureSinks(dev *evdev.Device) (*vsink.Sinks, error) {
	if g.sinks != nil {
		return g.sinks, nil
	}

	var absRange *vsink.AbsRange
	if minX, maxX, ok := dev.AbsRange(evdev.AbsX); ok {
		if minY, maxY, ok := dev.AbsRange(evdev.AbsY); ok {
			absRange = &vsink.AbsRange{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
		}
	}

	sinks, err := vsink.New(absRange)
	if err != nil {
		return nil, err
	}
	g.sinks = sinks
	return sinks, nil
}

// matchProfile finds the ProfileSet whose device name is a prefix of
// reportedName (§4.3: "a device whose reported name matches the
// device-name prefix of at least one profile").
func matchProfile(reportedName string, store *profile.ProfileStore) (profile.ProfileSet, profile.Profile, bool) {
	for _, name := range store.DeviceNames() {
		if strings.HasPrefix(reportedName, name) {
			set, ok := store.Lookup(name)
			if !ok {
				continue
			}
			return set, set.Default(), true
		}
	}
	return profile.ProfileSet{}, profile.Profile{}, false
}
