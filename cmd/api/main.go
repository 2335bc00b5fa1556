package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bancowarmi/warmi-api/internal/auth"
	"github.com/bancowarmi/warmi-api/internal/config"
	"github.com/bancowarmi/warmi-api/internal/handler"
	"github.com/bancowarmi/warmi-api/internal/middleware"
	"github.com/bancowarmi/warmi-api/internal/repository"
	"github.com/bancowarmi/warmi-api/internal/service"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env")
	}

	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the shared connection pool. It lives for the whole process
	// and is handed to the repository, never looked up globally.
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PoolSize)
	db.SetMaxIdleConns(cfg.PoolSize)

	// Reachability probe: acquire and release one connection. A failure is
	// logged but does not abort startup; the database may come up later.
	probeCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	if err := db.PingContext(probeCtx); err != nil {
		logger.Errorf("Database unreachable at startup: %v", err)
	} else {
		logger.Info("Database connection established")
	}
	cancel()

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, auth.NewSHA256Verifier(), logger, cfg)
	h := handler.NewHandler(svc, logger, cfg.QueryTimeout)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Logging(logger))
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/dashboard/{socioId}", h.Dashboard).Methods("GET")
	r.HandleFunc("/fines/{socioId}", h.Fines).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// The frontend is served from another origin, so CORS stays wide open.
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
	)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      cors(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
