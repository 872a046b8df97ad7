package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/comalice/mfsm"
	"github.com/comalice/mfsm/internal/config"
	"github.com/comalice/mfsm/internal/metrics"
	"github.com/comalice/mfsm/realtime"
)

type runOptions struct {
	queue       string
	events      int
	interval    time.Duration
	tickRate    time.Duration
	metricsAddr string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Broadcast a stream of events through one queue of the topology",
		Example: "  mfsm run -c topology.yaml --queue input --events 100 --metrics-addr :9090",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.queue, "queue", "", "Queue to broadcast on (default: first queue)")
	cmd.Flags().IntVar(&opts.events, "events", 10, "Number of events to send")
	cmd.Flags().DurationVar(&opts.interval, "interval", 10*time.Millisecond, "Delay between events")
	cmd.Flags().DurationVar(&opts.tickRate, "tick", 16667*time.Microsecond, "Dispatcher tick rate")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics on this address while running")
	return cmd
}

func findQueue(cfg config.Config, name string) (config.QueueConfig, error) {
	if len(cfg.Queues) == 0 {
		return config.QueueConfig{}, errors.New("topology has no queues")
	}
	if name == "" {
		return cfg.Queues[0], nil
	}
	for _, q := range cfg.Queues {
		if q.Name == name {
			return q, nil
		}
	}
	return config.QueueConfig{}, fmt.Errorf("queue %q not found", name)
}

// newMetricsRouter exposes the registry and a liveness probe.
func newMetricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func runSimulation(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := root.logger

	reg := prometheus.NewRegistry()
	observer, err := metrics.NewPrometheus(reg)
	if err != nil {
		return err
	}

	cfg, topo, err := root.loadTopology(nil)
	if err != nil {
		return err
	}
	qcfg, err := findQueue(cfg, opts.queue)
	if err != nil {
		return err
	}

	d := realtime.NewDispatcher(realtime.Config{
		TickRate:     opts.tickRate,
		MaxListeners: qcfg.Capacity,
		Name:         qcfg.Name,
		Logger:       slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})),
		Observer:     observer,
	})

	var handled atomic.Int64
	for _, name := range qcfg.Listeners {
		name := name
		if err := d.Subscribe(topo.Listener(name), func(_ context.Context, e mfsm.Event) {
			handled.Add(1)
			log.Debug().Str("listener", name).Int("event", int(e.ID)).Msg("handled")
		}); err != nil {
			return fmt.Errorf("subscribe %q: %w", name, err)
		}
	}

	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: newMetricsRouter(reg)}
		go func() {
			log.Info().Str("addr", opts.metricsAddr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := d.Start(ctx); err != nil {
		return err
	}

	sent, partial := 0, 0
	for i := 1; i <= opts.events; i++ {
		err := d.SendEvent(mfsm.NewEvent(mfsm.EventID(i)))
		switch {
		case errors.Is(err, mfsm.ErrPartialFailure):
			partial++
			log.Warn().Err(err).Int("event", i).Msg("broadcast incomplete")
		case err != nil:
			_ = d.Stop()
			return err
		}
		sent++

		select {
		case <-ctx.Done():
			_ = d.Stop()
			return ctx.Err()
		case <-time.After(opts.interval):
		}
	}

	if err := d.Stop(); err != nil {
		return err
	}
	d.Tick(ctx)

	log.Info().Str("queue", qcfg.Name).Int("sent", sent).Int("partial", partial).Int64("handled", handled.Load()).Msg("run complete")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "queue %s: sent %d events, %d partial failures, %d handled\n",
		qcfg.Name, sent, partial, handled.Load())
	return err
}
