// CortexFace - the animated face engine, hosted off-device
package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/normanking/cortexface/internal/bus"
	"github.com/normanking/cortexface/internal/config"
	"github.com/normanking/cortexface/internal/display"
	"github.com/normanking/cortexface/internal/engine"
	"github.com/normanking/cortexface/internal/eyes"
	"github.com/normanking/cortexface/internal/gesture"
	"github.com/normanking/cortexface/internal/logging"
	"github.com/normanking/cortexface/internal/mouth"
	"github.com/normanking/cortexface/internal/telemetry"
	"github.com/normanking/cortexface/internal/usblink"
)

// Global logger instance
var syslog *logging.Logger

func main() {
	root := &cobra.Command{
		Use:   "cortexface",
		Short: "Companion face animation engine",
		Long: `CortexFace animates the companion's face: autonomous eyes, a
segmented mouth, and a speech state machine, rendered into an in-memory
framebuffer and exposed over HTTP/WebSocket for bring-up and telemetry.`,
	}

	root.PersistentFlags().Int("fps", 0, "frame rate override (0 = config)")
	root.PersistentFlags().Int64("seed", 0, "random seed override (0 = entropy)")
	root.PersistentFlags().Bool("labels", false, "draw mood labels in the top band")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the production speech driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, "normal")
		},
	}

	cycleCmd := &cobra.Command{
		Use:   "cycle",
		Short: "Run the debug mood cycler (fixed order, 5s holds, labeled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, "cycle")
		},
	}

	root.AddCommand(runCmd, cycleCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runApp assembles and runs the whole face: config, logger, bus, display,
// rig, driver, links, and telemetry.
func runApp(cmd *cobra.Command, mode string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Engine.Mode = mode
	applyFlags(cmd, cfg)

	logDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		logDir = filepath.Join(home, ".cortexface", "logs")
	}
	syslog, err = logging.New(&logging.Config{
		LogDir:  logDir,
		Level:   logging.LogLevel(cfg.Logging.Level),
		Console: cfg.Logging.Console,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer syslog.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventBus := bus.NewEventBus()

	// Tuning reloads are logged; animation state is never persisted, so a
	// restart is the reload path for layout changes.
	config.Watch(func(e fsnotify.Event) {
		syslog.Info("config", "Config file changed, restart to apply layout changes", map[string]interface{}{
			"file": e.Name,
		})
		eventBus.Publish(bus.Event{Type: bus.EventTypeConfigReloaded, Data: map[string]any{"file": e.Name}})
	})

	// Seeded runs replay exactly; the default seeds from entropy.
	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))
	syslog.Info("main", "Starting face engine", map[string]interface{}{
		"mode": cfg.Engine.Mode,
		"fps":  cfg.Engine.FPS,
		"seed": seed,
	})

	fb := display.NewFramebuffer(cfg.Display.Width, cfg.Display.Height)

	eyeLayout := eyes.DefaultLayout(fb.Width(), fb.Height())
	eyeLayout.Cy -= cfg.Eyes.CyOffset
	rig := eyes.New(eyeLayout, rng)

	mouthBox := mouth.Layout(fb, mouth.Params{
		WidthFactor:    cfg.Mouth.WidthFactor,
		BaselineOffset: cfg.Mouth.BaselineOffset,
		ExtraDown:      cfg.Mouth.ExtraDown,
	}, eyeLayout.Cy, eyeLayout.RWhite, rig.CenterDelta())

	zlog := syslog.Zerolog()

	var driver engine.Driver
	if strings.EqualFold(cfg.Engine.Mode, "cycle") {
		stage := engine.NewStage(fb, mouthBox, true)
		driver = engine.NewCycler(stage, eventBus, zlog)
	} else {
		stage := engine.NewStage(fb, mouthBox, cfg.Engine.ShowLabels)
		driver = engine.NewSpeechDriver(stage, rng, eventBus, zlog)
	}

	eng := engine.New(engine.NewClock(cfg.Engine.FPS), fb, rig, driver, zlog)

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		metrics = telemetry.NewMetrics()
		eng.SetTickObserver(metrics.ObserveTick)

		server := telemetry.NewServer(cfg.Telemetry.Listen, driver, fb.ASCII, metrics, eventBus, zlog)
		go func() {
			if err := server.Start(ctx); err != nil {
				syslog.Error("telemetry", "Telemetry server failed", err, nil)
			}
		}()
	}

	if cfg.Link.Enabled {
		link := usblink.New(nil, eventBus, zlog)
		go func() {
			if err := link.ListenTCP(ctx, cfg.Link.Listen); err != nil {
				syslog.Error("usblink", "Control link failed", err, nil)
			}
		}()
	}

	if cfg.Gesture.Enabled {
		recv := gesture.NewReceiver(cfg.Gesture.URL, zlog)
		recv.SetSampleCallback(func(s gesture.Sample) {
			rig.SetGazeTarget(s.NormYaw(), s.NormPitch())
			if metrics != nil {
				metrics.SetLinkUp("gesture", true)
			}
		})
		recv.SetLostCallback(func() {
			rig.ResetGaze()
			if metrics != nil {
				metrics.SetLinkUp("gesture", false)
			}
		})
		if err := recv.Connect(ctx); err != nil {
			syslog.Error("gesture", "Gesture receiver failed to start", err, nil)
		}
		defer recv.Disconnect()
	}

	if err := eng.Run(ctx); err != nil && err != ctx.Err() {
		return fmt.Errorf("engine: %w", err)
	}
	syslog.Info("main", "Shutdown complete", nil)
	return nil
}

// applyFlags lets command-line flags override the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if fps, _ := cmd.Flags().GetInt("fps"); fps > 0 {
		cfg.Engine.FPS = fps
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		cfg.Engine.Seed = seed
	}
	if labels, _ := cmd.Flags().GetBool("labels"); labels {
		cfg.Engine.ShowLabels = true
	}
}
