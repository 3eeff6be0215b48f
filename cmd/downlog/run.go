// cmd/downlog/run.go
package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tamzrod/downtime-log/internal/config"
	"github.com/tamzrod/downtime-log/internal/metrics"
	"github.com/tamzrod/downtime-log/internal/monitor"
	"github.com/tamzrod/downtime-log/internal/poller"
	"github.com/tamzrod/downtime-log/internal/writer"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Monitor the configured device and record its downtime",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, st, closeMedium, err := openStore(log)
		if err != nil {
			return err
		}
		defer closeMedium()

		r := cfg.Recorder
		warnVolatile(log, r.Storage)

		clk, err := newClock(r.Clock)
		if err != nil {
			return err
		}

		// --------------------
		// Metrics (optional)
		// --------------------

		var mt *metrics.Metrics
		if r.Metrics.Listen != "" {
			reg := prometheus.NewRegistry()
			mt = metrics.New(reg)

			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler(reg))
			srv := &http.Server{Addr: r.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server stopped", "err", err)
				}
			}()
			defer srv.Close()
			log.Info("metrics listening", "addr", r.Metrics.Listen)
		}

		opts := []monitor.Option{monitor.WithLogger(log), monitor.WithMetrics(mt)}

		// --------------------
		// Status memory (optional)
		// --------------------

		if r.StatusMemory != nil {
			sw, closeStatus, err := writer.BuildStatusWriter(*r.StatusMemory, r.Monitor.Source.DeviceName)
			if err != nil {
				return err
			}
			defer closeStatus()
			opts = append(opts, monitor.WithStatusWriter(sw))
		}

		mon, err := monitor.New(st, clk, opts...)
		if err != nil {
			return err
		}
		if err := mon.Start(); err != nil {
			return err
		}

		// --------------------
		// Probe -> monitor
		// --------------------

		p, closePoller, err := poller.Build(r.Monitor)
		if err != nil {
			return err
		}
		defer closePoller()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := make(chan poller.PollResult)
		go p.Run(ctx, out)

		log.Info("monitoring",
			"device", r.Monitor.Source.Endpoint,
			"slots", st.Slots(),
			"interval_ms", r.Monitor.Poll.IntervalMs,
		)
		mon.Run(ctx, out)

		log.Info("stopped")
		return nil
	},
}

// warnVolatile reports a memory medium: the log does not survive the
// process. Intended for simulation only.
func warnVolatile(log *slog.Logger, sc config.StorageConfig) bool {
	if sc.Kind != config.StorageMemory {
		return false
	}
	log.Warn("storage kind is memory: downtime records are lost on exit", "size", sc.Size)
	return true
}
