package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casestudy-backend/internal/cache"
	"casestudy-backend/internal/casestudies"
	"casestudy-backend/internal/config"
	"casestudy-backend/internal/db"
	"casestudy-backend/internal/middleware"
	"casestudy-backend/internal/transport"
	"casestudy-backend/internal/uploads"
	"casestudy-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	imageStore, err := uploads.NewDiskStore(cfg.UploadDir, cfg.UploadFolder, cfg.UploadBaseURL)
	if err != nil {
		logger.Error("upload store init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo := casestudies.NewRepository(cols.CaseStudies)
	service := casestudies.NewService(repo, cfg.Timezone)
	handler := casestudies.NewHandler(
		service,
		imageStore,
		validation.New(),
		cacheStore,
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		cfg.MaxUploadBytes,
		logger,
	)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		transport.WriteSuccess(w, http.StatusOK, "API running", nil)
	})

	r.Handle(cfg.UploadBaseURL+"/*", http.StripPrefix(cfg.UploadBaseURL+"/", http.FileServer(http.Dir(cfg.UploadDir))))

	r.Route("/case-study", func(cs chi.Router) {
		cs.Post("/create", handler.Create)
		cs.Get("/", handler.List)
		cs.Get("/id/{id}", handler.GetByID)
		cs.Get("/slug/{slug}", handler.GetBySlug)
		cs.Put("/{id}", handler.Update)
		cs.Delete("/{id}", handler.Delete)
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
