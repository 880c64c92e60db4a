package environment

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/makima-go/makima/internal/ids"
)

// Probe is EnvironmentProbe (§4.2): a single `ActiveWindow` operation,
// side-effect-free on the session, whose session-kind detection happens
// once and is cached. A Probe is constructed once at startup and shared,
// immutably, by every Translator.
type Probe struct {
	once sync.Once
	kind sessionKind
	user string
	root bool
}

// New constructs a Probe without touching the session; detection is
// deferred to the first ActiveWindow call, though in practice main()
// calls ActiveWindow once at startup to force it eagerly and log the
// detected session kind.
func New() *Probe {
	return &Probe{}
}

func (p *Probe) detect() {
	p.once.Do(func() {
		p.kind = detectSessionKind()
		if user, root, ok := sessionUser(); ok {
			p.user, p.root = user, root
			ensureSessionBus(context.Background(), user, root)
		}
		log.Info().Str("session", sessionKindName(p.kind)).Msg("environment: session detected")
	})
}

func sessionKindName(k sessionKind) string {
	switch k {
	case sessionHyprland:
		return "hyprland"
	case sessionSway:
		return "sway"
	case sessionKDEWayland:
		return "kde-wayland"
	case sessionX11:
		return "x11"
	default:
		return "unsupported"
	}
}

// ActiveWindow returns the focused window's Client, or Default if
// detection is unsupported, the query failed, or the result isn't one of
// known (the set of window classes any profile in the caller's
// ProfileSet actually associates against — §4.2: "If the returned class
// is not present as an association in the Translator's ProfileSet, the
// caller treats it as Default"). Every error is swallowed into Default;
// this method never returns an error (§4.2: "errors map to Default, never
// propagate").
func (p *Probe) ActiveWindow(ctx context.Context, known []ids.Client) ids.Client {
	p.detect()

	var client ids.Client
	var err error
	switch p.kind {
	case sessionHyprland:
		client, err = activeWindowHyprland(ctx)
	case sessionSway:
		client, err = activeWindowSway(ctx)
	case sessionKDEWayland:
		client, err = activeWindowKDE(ctx, p.user, p.root)
	case sessionX11:
		client, err = activeWindowX11(ctx)
	default:
		return ids.DefaultClient
	}
	if err != nil {
		log.Debug().Err(err).Str("session", sessionKindName(p.kind)).Msg("environment: active window query failed, using Default")
		return ids.DefaultClient
	}

	for _, k := range known {
		if k == client {
			return client
		}
	}
	return ids.DefaultClient
}
