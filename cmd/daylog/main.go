package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/daylog"
)

const (
	FlagCatGlobal = "Global options:"
	shutdownWait  = 5 * time.Second
)

func main() {
	if err := Run(context.Background()); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	var verbose bool
	verboseFlag := &cli.BoolFlag{
		Name:        "verbose",
		Aliases:     []string{"v"},
		Usage:       "verbose console output (includes debug)",
		EnvVars:     []string{"DAYLOG_VERBOSE"},
		Destination: &verbose,
		Category:    FlagCatGlobal,
	}

	var configPath string
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "load settings from the [daylog] table of TOML file `PATH`",
		EnvVars:     []string{"DAYLOG_CONFIG"},
		Destination: &configPath,
		Category:    FlagCatGlobal,
	}

	var dir string
	dirFlag := &cli.StringFlag{
		Name:        "dir",
		Aliases:     []string{"d"},
		Usage:       "write day files to `DIR`, overrides the config file",
		EnvVars:     []string{"DAYLOG_DIR"},
		Destination: &dir,
		Category:    FlagCatGlobal,
	}

	overridesFlag := &cli.StringSliceFlag{
		Name:     "set",
		Usage:    "override a setting as `KEY=VALUE`, repeatable",
		Category: FlagCatGlobal,
	}

	before := func(_ *cli.Context) error {
		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}

		logW := os.Stderr
		slog.SetDefault(slog.New(tint.NewHandler(logW, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.StampMilli,
			NoColor:    !isatty.IsTerminal(logW.Fd()),
		})))

		return nil
	}

	newLogger := func(c *cli.Context) (*daylog.Logger, error) {
		cfg := daylog.DefaultConfig()
		if configPath != "" {
			var err error
			if cfg, err = daylog.NewConfigFromFile(configPath); err != nil {
				return nil, err
			}
		}
		if dir != "" {
			cfg.Directory = dir
		}
		if err := daylog.ApplyOverrides(cfg, c.StringSlice("set")...); err != nil {
			return nil, err
		}

		logger := daylog.NewLogger()
		if err := logger.ApplyConfig(cfg); err != nil {
			if !errors.Is(err, daylog.ErrDisabled) {
				return nil, err
			}
			slog.Warn("Logging disabled", "dir", cfg.Directory, "err", err)
		}

		slog.Debug("Logger configured", "dir", cfg.Directory, "levels", cfg.Levels,
			"auto_flush_count", cfg.AutoFlushCount, "sync_interval_ms", cfg.SyncIntervalMs)

		return logger, nil
	}

	flags := []cli.Flag{verboseFlag, configFlag, dirFlag, overridesFlag}

	var producers, perProducer, maxMessageSize int

	app := &cli.App{
		Name:                   "daylog",
		Usage:                  "buffered day-rotating file logger",
		Suggest:                true,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			{
				Name:   "pipe",
				Usage:  "append stdin lines of the form \"<level> <message>\" until EOF or interrupt",
				Flags:  flags,
				Before: before,
				Action: func(c *cli.Context) error {
					logger, err := newLogger(c)
					if err != nil {
						return err
					}
					return pipe(c.Context, logger)
				},
			},
			{
				Name:  "stress",
				Usage: "write from concurrent producers and report engine stats",
				Flags: append(flags,
					&cli.IntFlag{
						Name:        "producers",
						Aliases:     []string{"p"},
						Usage:       "number of concurrent producers",
						Value:       16,
						Destination: &producers,
					},
					&cli.IntFlag{
						Name:        "count",
						Aliases:     []string{"n"},
						Usage:       "entries per producer",
						Value:       10000,
						Destination: &perProducer,
					},
					&cli.IntFlag{
						Name:        "max-message-size",
						Usage:       "upper bound of random message length",
						Value:       256,
						Destination: &maxMessageSize,
					},
				),
				Before: before,
				Action: func(c *cli.Context) error {
					logger, err := newLogger(c)
					if err != nil {
						return err
					}
					return stress(c.Context, logger, producers, perProducer, maxMessageSize)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.RunContext(ctx, os.Args)
}

// pipe forwards stdin lines to the logger, the first word of each line is its level
func pipe(ctx context.Context, logger *daylog.Logger) error {
	if err := logger.Start(); err != nil {
		return fmt.Errorf("starting logger: %w", err)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	var total, rejected int
loop:
	for {
		select {
		case <-ctx.Done():
			slog.Info("Interrupted, draining")
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			level, msg, found := strings.Cut(strings.TrimSpace(line), " ")
			if !found {
				level, msg = daylog.LevelInfo, level
			}
			if msg == "" {
				continue
			}
			total++
			if !logger.Write(level, msg, nil) {
				rejected++
			}
		}
	}

	err := logger.Shutdown(shutdownWait)

	select {
	case serr := <-scanErr:
		if serr != nil {
			err = errors.Join(err, fmt.Errorf("reading stdin: %w", serr))
		}
	default:
	}

	stats := logger.Stats()
	slog.Info("Pipe done", "lines", total, "rejected", rejected,
		"written", stats.Processed, "dropped", stats.Dropped, "rotations", stats.Rotations)

	return err
}

var stressLevels = []string{
	daylog.LevelDebug,
	daylog.LevelInfo,
	daylog.LevelNotice,
	daylog.LevelWarning,
	daylog.LevelError,
}

// stress runs concurrent producers against a started logger
func stress(ctx context.Context, logger *daylog.Logger, producers, perProducer, maxMessageSize int) error {
	if producers <= 0 || perProducer <= 0 || maxMessageSize <= 0 {
		return cli.Exit("producers, count and max-message-size must be positive", 1)
	}

	if err := logger.Start(); err != nil {
		return fmt.Errorf("starting logger: %w", err)
	}

	slog.Info("Stress started", "producers", producers, "per_producer", perProducer)
	start := time.Now()

	eg, ctx := errgroup.WithContext(ctx)
	for p := range producers {
		eg.Go(func() error {
			rnd := rand.New(rand.NewSource(time.Now().UnixNano() + int64(p)))
			for i := range perProducer {
				if ctx.Err() != nil {
					return nil
				}
				level := stressLevels[rnd.Intn(len(stressLevels))]
				logger.Write(level, fmt.Sprintf("wkr=%d seq=%d %s", p, i, randomMessage(rnd, maxMessageSize)), nil)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("running producers: %w", err)
	}
	produced := time.Since(start)

	if err := logger.Shutdown(shutdownWait); err != nil {
		return fmt.Errorf("shutting down logger: %w", err)
	}

	stats := logger.Stats()
	slog.Info("Stress done",
		"produced_in", produced,
		"total", time.Since(start),
		"written", stats.Processed,
		"dropped", stats.Dropped,
		"syncs", stats.Syncs,
		"sync_failures", stats.SyncFailures,
		"rotations", stats.Rotations,
	)

	return nil
}

func randomMessage(rnd *rand.Rand, maxSize int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	size := rnd.Intn(maxSize) + 1
	var sb strings.Builder
	sb.Grow(size)
	for range size {
		sb.WriteByte(chars[rnd.Intn(len(chars))])
	}
	return sb.String()
}
