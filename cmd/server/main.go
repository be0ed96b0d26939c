package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamflux/internal/carousel"
	"streamflux/internal/media"
	"streamflux/internal/platform/config"
	"streamflux/internal/platform/logger"
	"streamflux/internal/platform/metrics"
	"streamflux/internal/platform/respond"
	"streamflux/internal/showcase"
	"streamflux/internal/source"
	"streamflux/internal/upload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/afero"
)

const defaultShutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	dataFile := config.GetEnv("DATA_FILE", "")
	seedDemo := config.GetEnvBool("SEED_DEMO", true)
	uploadDir := config.GetEnv("UPLOAD_DIR", "uploads")
	uploadMax := config.GetEnvInt64("UPLOAD_MAX_BYTES", upload.DefaultMaxBytes)
	publicURL := config.GetEnv("PUBLIC_BASE_URL", "")
	showcaseAPI := config.GetEnv("SHOWCASE_SOURCE_URL", "")
	showcaseCache := config.GetEnv("SHOWCASE_CACHE_FILE", "data/showcase_cache.json")
	shutdownTimeout := config.GetEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)

	carouselCfg := carousel.DefaultConfig()
	carouselCfg.ItemWidth = config.GetEnvFloat("CAROUSEL_ITEM_WIDTH", carousel.DefaultItemWidth)
	carouselCfg.LoopCopies = config.GetEnvInt("CAROUSEL_LOOP_COPIES", carousel.DefaultLoopCopies)
	carouselCfg.MinItemsForAutoplay = config.GetEnvInt("CAROUSEL_MIN_ITEMS", carousel.DefaultMinItemsForAutoplay)

	log := logger.New(logLevel, logFormat)
	met := metrics.New()
	osFs := afero.NewOsFs()

	repo := media.NewInMemoryRepository()
	if dataFile != "" {
		store, err := media.OpenFileStore(osFs, dataFile)
		if err != nil {
			log.Error("open data file", "path", dataFile, "error", err)
			os.Exit(1)
		}
		repo = media.NewRepositoryWithStore(store)
	}

	storage := upload.NewStorage(osFs, uploadDir, publicURL, uploadMax)
	svc := media.NewService(repo, storage, log)
	if seedDemo {
		n, err := svc.Seed(media.DemoCatalogue())
		if err != nil {
			log.Error("seed demo catalogue", "error", err)
			os.Exit(1)
		}
		if n > 0 {
			log.Info("seeded demo catalogue", "items", n)
		}
	}

	mediaHandler := media.NewHandler(svc, log, met)
	uploadHandler := upload.NewHandler(storage, log, met)
	var rowSource source.Source = source.NewRepositorySource(svc, "")
	if showcaseAPI != "" {
		rowSource = source.NewCachedSource(source.NewHTTPSource(showcaseAPI, "", nil), source.CacheConfig{
			Fs:         osFs,
			Path:       showcaseCache,
			Key:        showcaseAPI,
			OnFallback: met.IncSourceFallback,
		}, log)
	}
	sc := showcase.New(rowSource, carouselCfg, log)
	showcaseHandler := showcase.NewHandler(sc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]any{"status": "ok", "items": svc.Count()})
	})
	r.Get(metrics.ScrapePath, func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetMediaItems(svc.Count()) }).ServeHTTP(w, r)
	})
	r.Route("/media", mediaHandler.Routes)
	r.Post("/upload", uploadHandler.Upload)
	r.Handle(upload.URLPrefix+"*", uploadHandler.Serve())
	r.Route("/showcase", showcaseHandler.Routes)

	addr := ":" + port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"data_file", dataFile,
		"upload_dir", uploadDir,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
