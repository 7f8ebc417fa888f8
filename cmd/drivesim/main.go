package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/drivesim/drivesim/internal/config"
	"github.com/drivesim/drivesim/internal/core/observability/log"
	"github.com/drivesim/drivesim/internal/injector"
)

func main() {
	path := flag.String("config", "", "path to a YAML config; defaults are used when empty")
	flag.Parse()

	if err := run(*path); err != nil {
		fmt.Fprintln(os.Stderr, "drivesim:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}

	app, cleanup, err := injector.InitializeApp(cfg, time.Now())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The loop ending on its own (game over, time limit) takes the feed down too.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return app.Loop.Run(gctx)
	})

	// SIGUSR1 pauses and resumes the simulation.
	pauses := make(chan os.Signal, 1)
	signal.Notify(pauses, syscall.SIGUSR1)
	defer signal.Stop(pauses)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-pauses:
				app.Loop.TogglePause()
			}
		}
	})

	if cfg.Server.Enabled {
		g.Go(func() error {
			return app.Server.Run(gctx)
		})
	}

	err = g.Wait()
	if err != nil {
		app.Logger.Error("drivesim stopped with error", log.Error(err))
	}
	return err
}
