package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/elonfeng/aidigest/internal/config"
	"github.com/elonfeng/aidigest/internal/di"
	"github.com/elonfeng/aidigest/internal/pipeline"
	"github.com/elonfeng/aidigest/internal/scheduler"
	"github.com/elonfeng/aidigest/internal/store"
	"github.com/elonfeng/aidigest/pkg/server"
)

// components are the container-built parts a command may use.
type components struct {
	dig.In

	Config    *config.Config
	Logger    *zap.Logger
	Store     store.Store
	Runner    *pipeline.Runner
	Scheduler *scheduler.Scheduler
	Server    *server.Server
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Resolve(cfgFile))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// withComponents builds the container for cfg, runs fn and releases the
// store and logger afterwards.
func withComponents(cfg *config.Config, fn func(c components) error) error {
	container, err := di.BuildContainer(cfg)
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}

	var fnErr error
	err = container.Invoke(func(c components) {
		defer c.Logger.Sync()
		defer c.Store.Close()
		fnErr = fn(c)
	})
	if err != nil {
		return err
	}
	return fnErr
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runOnce() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	return withComponents(cfg, func(c components) error {
		report, err := c.Runner.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "feeds: %d ok, %d failed | new: %d | best: %d | sent: %t\n",
			report.Counts.FeedsOK, report.Counts.FeedsFailed,
			report.Counts.New, report.Best, report.Sent)
		return nil
	})
}

func runPreview(format, out string) error {
	if format != "html" && format != "text" {
		return fmt.Errorf("unknown format %q (want html or text)", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return withComponents(cfg, func(c components) error {
		d, report, err := c.Runner.Preview(ctx)
		if err != nil {
			return err
		}

		body := d.HTML
		if format == "text" {
			body = d.Text
		}

		var w io.Writer = os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		if _, err := io.WriteString(w, body); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}

		fmt.Fprintf(os.Stderr, "%s | new: %d | best: %d | failed feeds: %d\n",
			d.Subject, report.Counts.New, report.Best, report.Counts.FeedsFailed)
		return nil
	})
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	ctx, cancel := signalContext()
	defer cancel()

	return withComponents(cfg, func(c components) error {
		// Start scheduler in background.
		go func() {
			if err := c.Scheduler.Run(ctx); err != nil && ctx.Err() == nil {
				c.Logger.Error("scheduler error", zap.Error(err))
			}
		}()

		err := c.Server.ListenAndServe(ctx)
		c.Logger.Info("shutting down")
		return err
	})
}

func runCacheStats() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return withComponents(cfg, func(c components) error {
		set, status, err := c.Store.Load(context.Background())
		if status == store.LoadCorrupt {
			return fmt.Errorf("cache %s unreadable: %w", c.Store.Name(), err)
		}
		fmt.Printf("backend: %s\nstatus:  %s\nlinks:   %d\n", c.Store.Name(), status, set.Len())
		return nil
	})
}

func runCacheImport(from string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return withComponents(cfg, func(c components) error {
		src := store.NewFileStore(from)
		if _, status, _ := src.Load(context.Background()); status == store.LoadMissing {
			return fmt.Errorf("nothing to import: %s not found or empty", from)
		}

		added, err := store.Import(context.Background(), c.Store, src)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "imported %d new links from %s into %s\n", added, from, c.Store.Name())
		return nil
	})
}
