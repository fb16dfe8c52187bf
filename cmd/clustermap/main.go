// clustermap is the interactive clustered-marker viewer.
//
// Run: go run ./cmd/clustermap --items 500 --zoom 9
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wesen/clustermap/internal/config"
	"github.com/wesen/clustermap/internal/logging"
	"github.com/wesen/clustermap/internal/mapui"
	"github.com/wesen/clustermap/internal/metrics"
	"github.com/wesen/clustermap/pkg/clustering"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	// The TUI owns the terminal: log to a file or nowhere.
	if _, err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}); err != nil {
		return err
	}
	defer logging.Close()
	log := logging.For("main")

	markers, err := cfg.Markers()
	if err != nil {
		return err
	}
	log.WithField("items", len(markers)).Info("loaded markers")

	enter, err := cfg.EnterSpec()
	if err != nil {
		return err
	}
	exit, err := cfg.ExitSpec()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := mapui.Options{
		Markers:        markers,
		Camera:         cfg.InitialCamera(),
		IdleDelay:      cfg.Camera.IdleDelay,
		MinClusterSize: cfg.Clustering.MinClusterSize,
		Policy:         cfg.Clustering.Policy,
		EnterSpec:      enter,
		ExitSpec:       exit,
		Context:        ctx,
	}
	if pos, ok, err := cfg.OverlayPosition(); err != nil {
		return err
	} else if ok {
		opts.Overlay = &pos
	}
	if cfg.Items.File == "" {
		seed := cfg.Items.Seed
		opts.Regenerate = func() []*clustering.Marker {
			seed++
			return cfg.Generate(seed)
		}
	}

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		opts.Observer = m
	}

	model, err := mapui.NewModel(opts)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	uiDone := make(chan struct{})

	if m != nil {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(m),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.WithField("addr", cfg.Metrics.Addr).Info("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-uiDone:
			}
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		})
	}

	g.Go(func() error {
		defer close(uiDone)
		p := tea.NewProgram(model, tea.WithContext(gctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})

	return g.Wait()
}

func metricsMux(m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
