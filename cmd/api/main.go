package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/finsight/finsight-service/internal/analytics"
	"github.com/finsight/finsight-service/internal/config"
	"github.com/finsight/finsight-service/internal/handler"
	"github.com/finsight/finsight-service/internal/middleware"
	"github.com/finsight/finsight-service/internal/realtime"
	"github.com/finsight/finsight-service/internal/repository"
	"github.com/finsight/finsight-service/internal/service"
	"github.com/finsight/finsight-service/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	godotenv.Load()
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

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	analyzer, err := analytics.New(analytics.DefaultConfig())
	if err != nil {
		logger.Fatalf("Failed to build analyzer: %v", err)
	}
	repo := repository.NewRepository(db)
	hub := realtime.NewHub(logger)
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, analyzer, hub, mailer, logger, cfg)
	h := handler.NewHandler(svc, hub, logger)

	// Weekly risk digest emails
	c := cron.New()
	if _, err := c.AddFunc(cfg.DigestCron, svc.SendWeeklyDigests); err != nil {
		logger.Fatalf("Failed to schedule digest job: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT")
	authRouter.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	authRouter.HandleFunc("/analytics", h.Analytics).Methods("GET")
	authRouter.HandleFunc("/summary", h.Summary).Methods("GET")
	authRouter.HandleFunc("/import/csv", h.ImportCSV).Methods("POST")
	authRouter.HandleFunc("/import/statement", h.ImportStatement).Methods("POST")
	authRouter.HandleFunc("/export/csv", h.ExportCSV).Methods("GET")
	authRouter.HandleFunc("/ws", h.Websocket).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
