// Command makima is a userspace evdev input-remapping daemon: it grabs
// configured physical devices, translates their raw event streams under
// per-window, per-layout profiles, and emits onto virtual keyboard/
// pointer/tablet devices (see internal/translator for the heart of the
// system).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/makima-go/makima/internal/environment"
	"github.com/makima-go/makima/internal/hotplug"
	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/orchestrator"
	"github.com/makima-go/makima/internal/profile"
)

var (
	configDir   string
	logLevel    string
	watchConfig bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "makima",
		Short: "Userspace evdev input-remapping daemon",
		Long: `makima grabs configured input devices and remaps their events under
per-window, per-layout profiles, emitting onto virtual uinput devices.`,
		Run: run,
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Profile directory (default: $MAKIMA_CONFIG or $HOME/.config/makima)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&watchConfig, "watch-config", false, "Hot-reload profiles on config directory changes")

	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("makima: failed to execute command")
	}
}

func run(cmd *cobra.Command, args []string) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	dir := configDir
	if dir == "" {
		dir, err = profile.ConfigDir()
		if err != nil {
			log.Fatal().Err(err).Msg("makima: cannot resolve config directory")
		}
	}

	store, err := profile.LoadDir(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("makima: failed to load profiles")
	}
	log.Info().Str("dir", dir).Strs("devices", store.DeviceNames()).Msg("makima: profiles loaded")

	probe := environment.New()
	probe.ActiveWindow(context.Background(), []ids.Client{}) // force eager session detection, §4.2

	monitor, err := hotplug.NewMonitor()
	if err != nil {
		log.Fatal().Err(err).Msg("makima: failed to open hotplug socket")
	}
	defer monitor.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("makima: received shutdown signal")
		cancel()
	}()

	var reload chan *profile.ProfileStore
	if watchConfig {
		reload = make(chan *profile.ProfileStore, 1)
		if err := profile.Watch(ctx, dir, func(s *profile.ProfileStore) { reload <- s }); err != nil {
			log.Warn().Err(err).Msg("makima: config hot-reload unavailable, continuing without it")
			reload = nil
		}
	}

	orch := orchestrator.New(probe, monitor)
	orch.Run(ctx, store, reload)

	log.Info().Msg("makima: shut down")
}
