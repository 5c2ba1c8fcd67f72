package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"moonmoji/clockface"
	"moonmoji/config"
	"moonmoji/moonphase"
)

var (
	// clock is swapped for a fake one in tests
	clock clockwork.Clock = clockwork.NewRealClock()

	logger *zap.Logger
)

// newLogger builds the production logger, at debug level when asked
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func newMoon(p float64) *moonphase.Engine {
	return moonphase.New(moonphase.WithClock(clock), moonphase.WithVariantProbability(p))
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "moonmoji",
		Short: "Clock-face and Moon phase emoji for status lines and prompts",
		Long: `moonmoji prints the clock face nearest the current half hour and the
current phase of the Moon as emoji.

Run without arguments to print both, ready for a shell prompt.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(configPath); err != nil {
				return err
			}
			if err := config.AppConfig.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			var err error
			logger, err = newLogger(config.AppConfig.LogLevel, verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: printStatus,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("MOONMOJI_CONFIG"), "YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newStatusCmd(),
		newClockCmd(),
		newMoonCmd(),
		newDemoCmd(),
		newWatchCmd(),
		newBotCmd(),
		newTUICmd(),
	)
	return root
}

// printStatus writes the clock face and the Moon on one line
func printStatus(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), statusLine(clockface.New(clock), newMoon(config.AppConfig.VariantProbability)))
	return err
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the clock face and the Moon, ready for a prompt",
		Args:  cobra.NoArgs,
		RunE:  printStatus,
	}
}

func newClockCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Print the clock face for now, or for --at",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			glyph := clockface.New(clock).Emoji()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parsing --at: %w", err)
				}
				glyph = clockface.EmojiAt(t)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), glyph)
			return err
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC 3339 time, read in its own offset")
	return cmd
}

func newMoonCmd() *cobra.Command {
	var (
		at      string
		variant float64
		name    bool
	)
	cmd := &cobra.Command{
		Use:   "moon",
		Short: "Print the Moon phase for now, or for --at",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.AppConfig.VariantProbability
			if cmd.Flags().Changed("variant") {
				if variant < 0 || variant > 1 {
					return fmt.Errorf("--variant %v is outside [0, 1]", variant)
				}
				p = variant
			}
			moon := newMoon(p)

			t := moon.Now()
			if at != "" {
				var err error
				if t, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("parsing --at: %w", err)
				}
			}

			phase := moon.PhaseAt(t)
			out := phase.Emoji
			if name {
				out += " " + phase.Name
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC 3339 time")
	cmd.Flags().Float64Var(&variant, "variant", moonphase.DefaultVariantProbability, "probability of the new/full moon variant glyph")
	cmd.Flags().BoolVar(&name, "name", false, "print the phase name too")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var (
		days  int
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "List the Moon phase for the coming days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = config.AppConfig.DemoDays
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			calendar := newMoon(config.AppConfig.VariantProbability).Calendar(days)
			render := renderCalendar
			if plain {
				render = renderPlain
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), render(calendar))
			return err
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", moonphase.DemoDays, "number of days")
	cmd.Flags().BoolVar(&plain, "plain", false, "no colors")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep a status file up to date for prompts and tmux",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			w := NewStatusWriter(cfg.StatusFilePath, clockface.New(clock), newMoon(cfg.VariantProbability), logger)

			s, err := w.Schedule(cfg.StatusInterval)
			if err != nil {
				return err
			}
			logger.Info("watching", zap.String("path", cfg.StatusFilePath), zap.Duration("interval", cfg.StatusInterval))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()
			s.Stop()
			logger.Info("watch stopped")
			return nil
		},
	}
}

func newBotCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			if err := cfg.ValidateBot(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBot(cfg, newMoon(cfg.VariantProbability), clockface.New(clock), logger, reset, ctx.Done())
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "forget the last announced phase and announce again")
	return cmd
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Show a live clock and Moon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(clock, newMoon(config.AppConfig.VariantProbability))
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
