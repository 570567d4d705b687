package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	voxcollide "github.com/gekko3d/voxcollide"
	"github.com/gekko3d/voxcollide/bench"
	"github.com/gekko3d/voxcollide/worldgen"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

type options struct {
	Config      string `cli:"" env:"VOXCOLLIDE_CONFIG"       help:"YAML configuration file."`
	Strategies  string `cli:"" env:"VOXCOLLIDE_STRATEGIES"   help:"Comma separated strategies to compare (monolithic|chunked|hybrid)."`
	World       string `cli:"" env:"VOXCOLLIDE_WORLD"        help:"Benchmark world (flat|terrain|pillars)."`
	Pattern     string `cli:"" env:"VOXCOLLIDE_PATTERN"      help:"Motion pattern (cluster|orbit|drift|static)."`
	Objects     int    `cli:"" env:"VOXCOLLIDE_OBJECTS"      help:"Number of dynamic bodies."`
	Frames      int    `cli:"" env:"VOXCOLLIDE_FRAMES"       help:"Number of simulated frames."`
	LogLevel    string `cli:"" env:"VOXCOLLIDE_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	MetricsAddr string `cli:"" env:"VOXCOLLIDE_METRICS_ADDR" help:"Serve Prometheus metrics on this address and keep running after the benchmark."`
	SentryDSN   string `cli:",hidden" env:"SENTRY_DSN"       help:"Sentry DSN for panics in extraction workers."`
}

func main() {
	var opts options

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Compares voxel world collider strategies.").
		Options(&opts)
	cli.Load()

	conf, err := voxcollide.Load(opts.Config)
	if err != nil {
		logs.Fatal(err)
	}
	applyOptions(&conf, opts)

	if err := conf.Bench.Validate(); err != nil {
		logs.Fatal(err)
	}
	logs.SetLevel(logs.ParseLevel(conf.Logging.Level))

	if opts.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: opts.SentryDSN}); err != nil {
			logs.Fatal(errors.New("initializing sentry failed").Wrap(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	if conf.Metrics.StatsView {
		// viewer settings only apply to managers created after them
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(conf.Metrics.StatsViewAddr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	logger := voxcollide.NewDefaultLogger(conf.Logging.Prefix, conf.Logging.Debug)
	exporter := voxcollide.NewExporter()

	tree, err := worldgen.Build(conf.Bench.World, conf.Bench.WorldDepth, conf.Bench.Seed)
	if err != nil {
		logs.Fatal(errors.New("building benchmark world failed").
			WithTag("world", conf.Bench.World).
			Wrap(err))
	}

	logs.WithTag("world", conf.Bench.World).
		WithTag("depth", conf.Bench.WorldDepth).
		WithTag("objects", conf.Bench.Objects).
		WithTag("frames", conf.Bench.Frames).
		WithTag("pattern", conf.Bench.Pattern).
		Info("starting collider benchmark")

	harness := bench.Harness{
		Tree:     tree,
		Collider: conf.Collider,
		Physics:  conf.Physics,
		Logger:   logger,
		Exporter: exporter,
	}
	sc := bench.DefaultScenario()
	sc.Objects = conf.Bench.Objects
	sc.Frames = conf.Bench.Frames
	sc.Pattern = conf.Bench.Pattern
	sc.Seed = conf.Bench.Seed
	sc.EngineResolve = conf.Bench.EngineResolve

	report, err := harness.Run(ctx, sc, conf.Bench.Strategies, conf.Bench.Baseline)
	if err != nil {
		logs.Fatal(errors.New("benchmark failed").Wrap(err))
	}
	if err := printReport(os.Stdout, report); err != nil {
		logs.Fatal(err)
	}

	if conf.Metrics.Addr != "" {
		var admin http.ServeMux
		admin.Handle("/metrics", exporter.Handler())
		listenAndServe(ctx, &http.Server{Addr: conf.Metrics.Addr, Handler: &admin})
	}
}

func applyOptions(conf *voxcollide.Config, opts options) {
	if opts.Strategies != "" {
		conf.Bench.Strategies = strings.Split(opts.Strategies, ",")
	}
	if opts.World != "" {
		conf.Bench.World = opts.World
	}
	if opts.Pattern != "" {
		conf.Bench.Pattern = opts.Pattern
	}
	if opts.Objects > 0 {
		conf.Bench.Objects = opts.Objects
	}
	if opts.Frames > 0 {
		conf.Bench.Frames = opts.Frames
	}
	if opts.LogLevel != "" {
		conf.Logging.Level = opts.LogLevel
	}
	if opts.MetricsAddr != "" {
		conf.Metrics.Addr = opts.MetricsAddr
	}
}

// listenAndServe blocks until ctx is done and the servers are shut down.
func listenAndServe(ctx context.Context, servers ...*http.Server) {
	go func() {
		<-ctx.Done()

		for _, s := range servers {
			if err := s.Shutdown(context.Background()); err != nil {
				logs.Warn(errors.Newf("shutting down the server failed").
					WithTag("addr", s.Addr).
					Wrap(err))
			}
		}
	}()

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)

		go func(s *http.Server) {
			defer wg.Done()

			logs.WithTag("addr", s.Addr).Info("starting metrics server")

			switch err := s.ListenAndServe(); err {
			case nil, http.ErrServerClosed:
				logs.WithTag("addr", s.Addr).Info("stopping metrics server")
			default:
				logs.Warn(errors.Newf("metrics server stopped").
					WithTag("addr", s.Addr).
					Wrap(err))
			}
		}(s)
	}
	wg.Wait()
}
