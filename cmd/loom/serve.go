package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/pkg/dom"
	"github.com/vango-dev/loom/pkg/host"
	"github.com/vango-dev/loom/pkg/instrument"
	"github.com/vango-dev/loom/pkg/loom"
	"github.com/vango-dev/loom/pkg/remote"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		addr    string
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the counter demo to browsers",
		Long: `Run the counter demo on a host loop and mirror every commit to
connected browsers over a WebSocket.

Routes:
  GET  /                     page with the live demo
  GET  /ws                   mutation frames
  GET  /snapshot             current HTML
  POST /events/{id}/{event}  dispatch an event to a node
  GET  /metrics              Prometheus metrics (with --metrics)

Examples:
  loom serve
  loom serve --addr=0.0.0.0:8080 --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			if metrics {
				cfg.Server.Metrics = true
			}
			if tracing {
				cfg.Server.Tracing = true
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := newLogger(cmd.ErrOrStderr(), cfg.Log)
			srv, err := newServer(cfg, logger)
			if err != nil {
				return err
			}
			info(cmd.OutOrStdout(), "Serving on http://%s", cfg.Server.Address)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Record an OpenTelemetry span per commit")

	return cmd
}

// server runs one demo session on a host loop behind a remote hub.
type server struct {
	cfg     *config.Config
	logger  *slog.Logger
	loop    *host.Loop
	hub     *remote.Hub
	mirror  *remote.Mirror
	session *demo.Session
}

func newServer(cfg *config.Config, logger *slog.Logger) (*server, error) {
	s := &server{
		cfg:    cfg,
		logger: logger,
		loop: host.NewLoop(host.LoopConfig{
			FrameInterval: cfg.Scheduler.FrameInterval.Std(),
			IdleBudget:    cfg.Scheduler.IdleBudget.Std(),
			QueueSize:     cfg.Scheduler.QueueSize,
			Logger:        logger,
		}),
	}

	hubConfig := remote.HubConfig{
		Snapshot: s.snapshot,
		Dispatch: s.dispatch,
		Logger:   logger,
	}
	observers := instrument.Multi{}
	if cfg.Server.Metrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, instrument.NewPrometheus(instrument.WithRegistry(registry)))
		hubConfig.Metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}
	if cfg.Server.Tracing {
		observers = append(observers, instrument.NewTracing())
	}
	s.hub = remote.NewHub(hubConfig)

	doc := dom.NewDocument()
	s.mirror = remote.NewMirror(doc, s.hub.Broadcast)
	observers = append(observers, s.mirror)

	session, err := demo.NewSession(doc, s.mirror,
		loom.WithLogger(logger),
		loom.WithYieldThreshold(cfg.Scheduler.YieldThreshold.Std()),
		loom.WithObserver(observers),
	)
	if err != nil {
		return nil, err
	}
	s.session = session
	session.Runtime.Start(s.loop)
	return s, nil
}

// Handler returns the hub's HTTP routes.
func (s *server) Handler() http.Handler {
	return s.hub.Handler()
}

// Run runs the host loop until ctx is done.
func (s *server) Run(ctx context.Context) error {
	err := s.loop.Run(ctx)
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ListenAndServe serves HTTP and runs the loop until ctx is done.
func (s *server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	loopErr := make(chan error, 1)
	go func() { loopErr <- s.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() { serveErr <- httpServer.ListenAndServe() }()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	case err = <-loopErr:
	}

	s.logger.Info("loom: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.Close()
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	s.session.Runtime.Stop()
	s.loop.Close()

	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// snapshot renders the document on the loop goroutine.
func (s *server) snapshot() (string, error) {
	var html string
	err := s.loop.Do(context.Background(), func() error {
		var err error
		html, err = s.session.HTML(dom.RenderOptions{EventMarkers: true, IDs: true})
		return err
	})
	return html, err
}

// dispatch delivers a client event to the node it names.
func (s *server) dispatch(ev remote.Event) error {
	return s.loop.Do(context.Background(), func() error {
		n, ok := s.mirror.Lookup(ev.ID)
		if !ok {
			return fmt.Errorf("%w: %d", remote.ErrUnknownNode, ev.ID)
		}
		node, ok := n.(*dom.Node)
		if !ok {
			return fmt.Errorf("%w: %d is not a document node", remote.ErrUnknownNode, ev.ID)
		}
		if dom.Dispatch(node, ev.Event, ev.Payload) == 0 {
			s.logger.Debug("loom: event had no handler", "id", ev.ID, "event", ev.Event)
		}
		return nil
	})
}
