package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/config"
	"github.com/dm/sysmap-go/internal/engine"
	"github.com/dm/sysmap-go/internal/resolve"
	"github.com/dm/sysmap-go/internal/state"
	"github.com/dm/sysmap-go/internal/tui"
)

var version = "0.1.0"

// flags holds the persistent command-line overrides.
type flags struct {
	configPath string
	base       string
	interval   time.Duration
	noAuto     bool
	insecure   bool
	logLevel   string
	theme      string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	return newRootCmd(&flags{})
}

func newRootCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sysmap",
		Short: "Live terminal map of processes, hardware and connections",
		Long: "sysmap polls a topology backend and keeps a live graph of the host:\n" +
			"processes, CPUs, memory, disks and remote peers.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return fail(err)
			}
			return fail(runTUI(cfg, f.base))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", config.Path(), "config file")
	pf.StringVar(&f.base, "base", "", "backend base URL (skips discovery when reachable)")
	pf.DurationVar(&f.interval, "interval", 0, "poll interval (e.g. 2s)")
	pf.BoolVar(&f.noAuto, "no-auto-refresh", false, "start with auto-refresh off")
	pf.BoolVar(&f.insecure, "insecure", false, "skip TLS certificate verification")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.theme, "theme", "", "color theme: dark or light")

	cmd.AddCommand(
		resolveCmd(f),
		snapshotCmd(f),
		watchCmd(f),
	)
	return cmd
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	changed := cmd.Flags().Changed
	if changed("interval") {
		cfg.Poll.Interval.Duration = f.interval
	}
	if changed("no-auto-refresh") {
		cfg.Poll.AutoRefresh = !f.noAuto
	}
	if changed("insecure") {
		cfg.Endpoint.Insecure = f.insecure
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("theme") {
		cfg.View.Theme = f.theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSession builds a session whose scheduler follows cfg.
func newSession(cfg *config.Config, logger *slog.Logger) *engine.Session {
	sched := engine.NewScheduler(engine.SchedulerConfig{
		Interval:    cfg.Poll.Interval.Duration,
		PauseWindow: cfg.Poll.PauseWindow.Duration,
		Backoff:     engine.NewBackoff(cfg.Backoff.Floor.Duration, cfg.Backoff.Factor, cfg.Backoff.Ceiling.Duration),
		AutoRefresh: cfg.Poll.AutoRefresh,
	})
	return engine.NewSession(sched, logger)
}

func newResolver(cfg *config.Config, base string, store resolve.EndpointStore, logger *slog.Logger) *resolve.Resolver {
	return resolve.New(resolve.Config{
		Override:     base,
		Host:         cfg.Endpoint.Host,
		Port:         cfg.Endpoint.Port,
		ProbeTimeout: cfg.Endpoint.ProbeTimeout.Duration,
		Insecure:     cfg.Endpoint.Insecure,
	}, store, logger.With("component", "resolve"))
}

func clientFactory(cfg *config.Config) tui.ClientFactory {
	return func(base string) (client.TopologyClient, error) {
		return client.NewDefaultClient(client.ClientConfig{
			BaseURL:            base,
			InsecureSkipVerify: cfg.Endpoint.Insecure,
			RequestTimeout:     cfg.Endpoint.RequestTimeout.Duration,
		})
	}
}

func runTUI(cfg *config.Config, base string) error {
	logger, closeLog, err := openLogger(cfg.Log, logFilePath(cfg.Log))
	if err != nil {
		return err
	}
	defer closeLog()

	session := newSession(cfg, logger)
	store := state.NewStore(state.DefaultPath())

	var changes <-chan struct{}
	if w, err := store.Watch(); err != nil {
		session.Logger().Warn("state watch disabled", "error", err)
	} else {
		defer w.Close()
		changes = w.Changes()
		go func() {
			for err := range w.Errors() {
				session.Logger().Warn("state watch", "error", err)
			}
		}()
	}

	app := tui.NewApp(tui.Options{
		Session:        session,
		Resolver:       newResolver(cfg, base, store, session.Logger()),
		NewClient:      clientFactory(cfg),
		Store:          store,
		Changes:        changes,
		RequestTimeout: cfg.Endpoint.RequestTimeout.Duration,
		CameraDebounce: cfg.View.CameraDebounce.Duration,
		Theme:          cfg.View.Theme,
	})

	session.Logger().Info("starting", "version", version, "interval", cfg.Poll.Interval.Duration)
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

// fail prints err to stderr and returns it so cobra exits non-zero.
func fail(err error) error {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel.Sprint("error:"), err)
	}
	return err
}
