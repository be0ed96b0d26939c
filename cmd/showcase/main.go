// Command showcase runs one carousel against a media API and logs what it
// would show, tick by tick.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"streamflux/internal/carousel"
	"streamflux/internal/media"
	"streamflux/internal/platform/config"
	"streamflux/internal/platform/logger"
	"streamflux/internal/source"
)

type options struct {
	api       string
	category  string
	policy    string
	mode      string
	interval  time.Duration
	step      float64
	duration  time.Duration
	cacheFile string
	demo      bool
}

func main() {
	_ = config.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "showcase",
		Short:        "Drive a media carousel from the command line",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log := logger.NewWithWriter(cmd.ErrOrStderr(),
				config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "text"))
			return run(ctx, opts, log)
		},
	}

	defaultCache := filepath.Join(os.TempDir(), "streamflux", "media_cache.json")
	f := cmd.Flags()
	f.StringVarP(&opts.api, "api", "a", config.GetEnv("MEDIA_API_URL", "http://localhost:8080"), "Base URL of the media API")
	f.StringVarP(&opts.category, "category", "c", "football", "Media category to show")
	f.StringVarP(&opts.policy, "policy", "p", string(carousel.PolicyCentered), "Carousel policy: track or centered")
	f.StringVarP(&opts.mode, "mode", "m", "batch", "Driver mode: frame or batch")
	f.DurationVar(&opts.interval, "interval", config.GetEnvDuration("CAROUSEL_BATCH_INTERVAL", carousel.DefaultBatchInterval), "Batch interval")
	f.Float64Var(&opts.step, "step", carousel.DefaultBatchStep, "Pixels advanced per batch")
	f.DurationVarP(&opts.duration, "duration", "d", 0, "Stop after this long (0 runs until interrupted)")
	f.StringVar(&opts.cacheFile, "cache", defaultCache, "Cache file used when the API is unreachable")
	f.BoolVar(&opts.demo, "demo", false, "Use the built-in demo catalogue instead of the API")

	lo.Must0(cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(media.Categories, func(c media.Category, _ int) string { return string(c) }), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(cmd.RegisterFlagCompletionFunc("policy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(carousel.PolicyTrack), string(carousel.PolicyCentered)}, cobra.ShellCompDirectiveNoFileComp
	}))

	return cmd
}

func run(ctx context.Context, opts options, log *slog.Logger) error {
	cat, ok := media.ParseCategory(opts.category)
	if !ok {
		return fmt.Errorf("unknown category %q", opts.category)
	}
	opts.category = string(cat)

	src := newSource(opts, log)
	items := source.LoadOrEmpty(ctx, src, log)

	cfg := carousel.DefaultConfig()
	cfg.Policy = carousel.ParsePolicy(opts.policy)
	engine := carousel.New(cfg)
	engine.Initialize(items)

	log.Info("carousel ready",
		slog.String("category", opts.category),
		slog.String("policy", string(cfg.Policy)),
		slog.Int("items", len(items)),
		slog.String("state", engine.State().String()))
	if engine.State() == carousel.StateUninitialized {
		return nil
	}

	onTick := carousel.OnTick(func(s carousel.Snapshot) {
		it := items[s.CenterIndex]
		log.Info("tick",
			slog.Float64("position", s.Position),
			slog.Int("center", s.CenterIndex),
			slog.String("title", it.Title),
			slog.String("state", s.State.String()))
	})

	var driver *carousel.Driver
	if opts.mode == "frame" {
		driver = carousel.FrameDriver(engine, onTick)
	} else {
		driver = carousel.BatchDriver(engine, opts.interval, opts.step, onTick)
	}

	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	driver.Start(ctx)
	<-ctx.Done()
	driver.Stop()

	log.Info("carousel stopped", slog.Float64("position", engine.Position()))
	return nil
}

func newSource(opts options, log *slog.Logger) source.Source {
	if opts.demo {
		return source.Func(func(ctx context.Context) ([]media.Item, error) {
			all, err := source.Demo().FetchAll(ctx)
			return lo.Filter(all, func(it media.Item, _ int) bool {
				return string(it.Category) == opts.category
			}), err
		})
	}
	return source.NewCachedSource(
		source.NewHTTPSource(opts.api, opts.category, nil),
		source.CacheConfig{
			Fs:   afero.NewOsFs(),
			Path: opts.cacheFile,
			Key:  opts.api + "|" + opts.category,
		},
		log,
	)
}
