package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/andikahmadr/diligence-api/internal/application"
	appanalysis "github.com/andikahmadr/diligence-api/internal/application/analysis"
	"github.com/andikahmadr/diligence-api/internal/config"
	domain "github.com/andikahmadr/diligence-api/internal/domain/analysis"
	fb "github.com/andikahmadr/diligence-api/internal/domain/fallback"
	mysqlp "github.com/andikahmadr/diligence-api/internal/infra/db/mysql"
	postgresp "github.com/andikahmadr/diligence-api/internal/infra/db/postgres"
	"github.com/andikahmadr/diligence-api/internal/infra/httpserver"
	minioStore "github.com/andikahmadr/diligence-api/internal/infra/storage"
	"github.com/andikahmadr/diligence-api/internal/infra/webhook"
	"github.com/andikahmadr/diligence-api/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql atau postgres, sesuai config)
	var (
		db        *sql.DB
		statuses  domain.StatusRepository
		fallbacks fb.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		statuses = postgresp.NewStatusRepository(db)
		fallbacks = postgresp.NewFallbackRepository(db)
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		statuses = mysqlp.NewStatusRepository(db)
		fallbacks = mysqlp.NewFallbackRepository(db)
	default:
		log.Fatalf("unsupported database driver: %s", cfg.Database.Driver)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		time.Duration(cfg.Minio.URLExpiryMinutes)*time.Minute,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init webhook client
	sender := webhook.New(cfg.Webhook.Endpoint)
	sender.Timeout = time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second
	sender.MaxAttempts = cfg.Webhook.MaxAttempts
	sender.BaseDelay = time.Duration(cfg.Webhook.BaseDelayMS) * time.Millisecond

	// init service
	svc := &appanalysis.Service{
		Resolver:  store,
		Sender:    sender,
		Statuses:  statuses,
		Fallbacks: fallbacks,
		Clock:     application.SystemClock{},
		Callback: appanalysis.CallbackConfig{
			DefaultOrigin: cfg.Webhook.CallbackBase,
		},
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.Keys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.Keys))
	}
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"storage":  middleware.CheckerFunc(store.Check),
	}))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(svc, store))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // dispatch bisa makan waktu (retry + timeout webhook)
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
