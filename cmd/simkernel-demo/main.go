// Command simkernel-demo runs the kernel headlessly for a fixed number of
// frames, printing periodic population stats and optionally fanning the
// per-frame delta stream out to NATS. Grounded on
// core/simulation_engine.py's run_headless/run_collect_stats (setup once,
// loop update, periodic stats, final summary) and, for the flag/env-var
// parsing idiom, the teacher's cmd/*/main.go demos (StringVar/BoolVar plus
// a small envInt/envString pair).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mbolaris/simkernel/internal/kernel"
	"github.com/mbolaris/simkernel/internal/metrics"
	"github.com/mbolaris/simkernel/internal/publish"
	"github.com/mbolaris/simkernel/internal/worlds"
)

func main() {
	var (
		mode          string
		maxFrames     int
		statsInterval int
		width         float64
		height        float64
		seed          int64
		metricsAddr   string
		natsURL       string
		natsSubject   string
	)

	flag.StringVar(&mode, "mode", "tank", "world mode to run (tank, petri)")
	flag.IntVar(&maxFrames, "frames", envInt("SIMKERNEL_FRAMES", 10000), "number of frames to simulate")
	flag.IntVar(&statsInterval, "stats-interval", envInt("SIMKERNEL_STATS_INTERVAL", 300), "print population stats every N frames")
	flag.Float64Var(&width, "width", 1280, "world width (tank mode)")
	flag.Float64Var(&height, "height", 720, "world height (tank mode)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 picks a random seed)")
	flag.StringVar(&metricsAddr, "metrics-bind-address", envString("SIMKERNEL_METRICS_ADDR", ":9090"), "address the Prometheus metrics endpoint binds to")
	flag.StringVar(&natsURL, "nats-url", os.Getenv("SIMKERNEL_NATS_URL"), "NATS URL to publish per-frame deltas to (disabled if empty)")
	flag.StringVar(&natsSubject, "nats-subject", "simkernel.frames", "NATS subject for the per-frame delta stream")

	opts := zapOptionsFromFlags()
	flag.Parse()

	zapLog, err := opts.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "simkernel-demo: build logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()
	log := zapr.NewLogger(zapLog)

	pack, err := worlds.WorldPackFor(mode, map[string]any{
		"width":  width,
		"height": height,
	})
	if err != nil {
		log.Error(err, "unknown world mode", "mode", mode)
		os.Exit(1)
	}

	cfg := kernel.KernelConfig{
		Display: kernel.Display{Width: width, Height: height},
	}
	if seed != 0 {
		u := uint64(seed)
		cfg.Seed = &u
	}

	k := kernel.New(cfg, log)

	kernelMetrics := metrics.NewKernelMetrics()
	k.SetMetrics(kernelMetrics)

	if natsURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pub, err := publish.NewNATSPublisher(ctx, natsURL, natsSubject)
		cancel()
		if err != nil {
			log.Error(err, "failed to connect delta publisher, continuing without it", "url", natsURL)
		} else {
			k.SetDeltaPublisher(pub)
			defer pub.Close()
		}
	}

	if err := k.Setup(pack); err != nil {
		log.Error(err, "kernel setup failed")
		os.Exit(1)
	}

	metricsServer := startMetricsServer(metricsAddr, kernelMetrics)
	defer shutdownMetricsServer(metricsServer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting headless run", "mode", mode, "frames", maxFrames, "width", width, "height", height, "seed", k.Seed(), "run_id", k.RunID())

	runHeadless(ctx, k, maxFrames, statsInterval, log)
}

// runHeadless mirrors core/simulation_engine.py's run_headless: a plain
// update loop, periodic stats logging, draining (and optionally
// publishing) each frame's outputs, stopping early on signal or a fatal
// Update error.
func runHeadless(ctx context.Context, k *kernel.Kernel, maxFrames, statsInterval int, log logr.Logger) {
	publisher := k.Publisher()

	for frame := 0; frame < maxFrames; frame++ {
		select {
		case <-ctx.Done():
			log.Info("received shutdown signal, stopping early", "frame", k.Frame())
			return
		default:
		}

		if err := k.Update(); err != nil {
			log.Error(err, "fatal error advancing simulation", "frame", k.Frame())
			return
		}

		spawns, removals, deltas := k.DrainFrameOutputs()
		if publisher != nil {
			pctx, cancel := context.WithTimeout(ctx, time.Second)
			if err := publisher.Publish(pctx, k.Frame(), spawns, removals, deltas); err != nil {
				log.Error(err, "failed to publish frame deltas", "frame", k.Frame())
			}
			cancel()
		}

		if statsInterval > 0 && int(k.Frame())%statsInterval == 0 {
			logStats(k, log)
		}
	}

	log.Info("run complete", "frames", k.Frame())
	logStats(k, log)
}

func logStats(k *kernel.Kernel, log logr.Logger) {
	snap := k.Snapshot(nil)
	counts := make(map[string]int)
	for _, e := range snap.Entities {
		counts[e.TypeName]++
	}
	log.Info("population stats", "frame", snap.Frame, "entities", len(snap.Entities), "by_type", counts)
}

func zapOptionsFromFlags() zapOptions {
	opts := zapOptions{Development: false}
	flag.BoolVar(&opts.Development, "zap-devel", false, "enable development-mode (human-friendly) logging")
	return opts
}

// zapOptions is a minimal stand-in for controller-runtime's zap.Options
// (Development toggles encoder/level presets), since this command doesn't
// depend on controller-runtime.
type zapOptions struct {
	Development bool
}

func (o zapOptions) Build() (*zap.Logger, error) {
	if o.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func startMetricsServer(addr string, m *metrics.KernelMetrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()
	return srv
}

func shutdownMetricsServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func envInt(name string, def int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func envString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
