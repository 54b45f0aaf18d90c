package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-flight/audio"
	"github.com/lixenwraith/vi-flight/config"
	"github.com/lixenwraith/vi-flight/engine"
	"github.com/lixenwraith/vi-flight/flight"
	"github.com/lixenwraith/vi-flight/input"
	"github.com/lixenwraith/vi-flight/parameter"
	"github.com/lixenwraith/vi-flight/terminal"
)

var (
	configFlag = flag.String("config", "", "YAML configuration file")
	envFlag    = flag.String("env", ".env", "dotenv file with VIFLIGHT_* overrides")
	debugFlag  = flag.Bool("debug", false, "Write debug logs to logs/vi-flight.log")
	muteFlag   = flag.Bool("mute", false, "Start with audio muted")
	scaleFlag  = flag.Float64("radar", 0.5, "Radar scale in meters per cell")
)

// speedStep scales the speed cap per Q/E press
const speedStep = 1.25

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configFlag, *envFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log, logFile := setupLogging(*debugFlag, cfg.Logging)
	if logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	screen.EnableFocus()

	// Panic recovery: restore the terminal even if the game crashes
	terminal.SetCrashScreen(screen)
	defer func() {
		if r := recover(); r != nil {
			terminal.HandleCrash(r)
		}
	}()
	defer screen.Fini()

	if err := run(screen, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("run failed", "error", err)
	}
}

func loadConfig(path, envFile string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.LoadEnv(cfg, envFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(screen tcell.Screen, cfg *config.Config, log *slog.Logger) error {
	ctx := engine.NewContext(engine.ContextConfig{
		Log:            log,
		InputNamespace: cfg.Input.Namespace,
		Gravity:        mgl64.Vec3{0, parameter.WorldGravityY, 0},
	})
	ctx.IsMuted.Store(*muteFlag)
	game := engine.NewGame(ctx)
	defer game.Dispose()

	bindings, err := cfg.Bindings.Resolve()
	if err != nil {
		return err
	}
	mapper := input.NewFlightActionMapperWithBindings(ctx.Input.Keys(), bindings)
	ctx.Input.RegisterMapper(mapper)

	ship := flight.NewShip(ctx,
		flight.WithActions(mapper),
		flight.WithTuning(cfg.Flight),
		flight.WithBody(cfg.Body.PhysicsConfig()),
	)
	game.AddEntity(ship)
	bindSpeedKeys(ctx, ship.Controller(), log)

	if cfg.Audio.Enabled {
		cue := audio.NewThrusterCue(ctx, audio.WithVolume(cfg.Audio.Volume))
		defer cue.Close()
		if err := cue.Start(); err != nil {
			log.Warn("audio unavailable, continuing without sound", "error", err)
		}
	}

	scheduler, _ := engine.NewClockScheduler(game, cfg.Loop.TickInterval)
	scheduler.SetCrashHandler(terminal.HandleCrash)
	scheduler.Start()
	defer scheduler.Stop()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan tcell.Event, 256)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	host := terminal.NewKeyboardHost(ctx.Input,
		terminal.WithReleaseTimeout(cfg.Input.ReleaseTimeout),
		terminal.WithHostLogger(log.With("component", "terminal")),
		terminal.WithEventHook(func(ev tcell.Event) bool {
			return handleControl(ev, ctx, screen)
		}),
	)
	terminal.Go(func() {
		_ = host.Run(runCtx, events)
		cancel()
	})

	log.Info("vi-flight started", "tick", cfg.Loop.TickInterval, "namespace", cfg.Input.Namespace)

	frame := time.NewTicker(parameter.FrameUpdateInterval)
	defer frame.Stop()
	for {
		select {
		case <-runCtx.Done():
			log.Info("vi-flight stopped", "ticks", game.Ticks())
			return runCtx.Err()
		case <-frame.C:
			drawHUD(screen, hudState{
				Telemetry: ship.Telemetry(),
				MaxSpeed:  ship.Controller().Tuning().MaxLinearSpeed,
				Pressed:   ctx.Input.PressedKeys(),
				Paused:    ctx.IsPaused(),
				Muted:     ctx.IsMuted.Load(),
				Frame:     ctx.FrameNumber.Add(1),
			}, *scaleFlag)
		}
	}
}

// handleControl consumes app-level keys; returning false quits
func handleControl(ev tcell.Event, ctx *engine.Context, screen tcell.Screen) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEsc || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'p':
			ctx.TogglePause()
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'm':
			ctx.IsMuted.Store(!ctx.IsMuted.Load())
		}
	case *tcell.EventResize:
		screen.Sync()
	}
	return true
}

// bindSpeedKeys scales the speed cap on each SlowDown/SpeedUp press
func bindSpeedKeys(ctx *engine.Context, c *flight.Controller, log *slog.Logger) {
	var last float64
	ctx.Bus.Subscribe(ctx.Input.Topic(input.FlightMapperName), func(args ...any) any {
		if len(args) == 0 {
			return nil
		}
		a, ok := args[0].(input.FlightActions)
		if !ok {
			return nil
		}
		accel := a.Accelerate
		if accel == last {
			return nil
		}
		last = accel
		if accel == 0 {
			return nil
		}

		factor := speedStep
		if accel < 0 {
			factor = 1 / speedStep
		}
		err := c.UpdateTuning(func(t *flight.Tuning) {
			t.MaxLinearSpeed *= factor
		})
		if err != nil {
			log.Warn("speed cap update rejected", "error", err)
			return nil
		}
		log.Debug("speed cap changed", "max_linear_speed", c.Tuning().MaxLinearSpeed)
		return nil
	})
}
