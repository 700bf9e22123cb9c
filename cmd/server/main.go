package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/faroukali99/reserveFound/internal/config"
	"github.com/faroukali99/reserveFound/internal/database"
	"github.com/faroukali99/reserveFound/internal/handlers"
	mW "github.com/faroukali99/reserveFound/internal/middleware"
	"github.com/faroukali99/reserveFound/internal/services"
	"github.com/faroukali99/reserveFound/internal/store/postgres"
)

func main() {
	// Initialize config
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Storage
	db := database.InitDatabase()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	recordStore := postgres.NewRecordStore(db)
	auditStore := postgres.NewAuditStore(db)

	// Services
	auditService := services.NewAuditService(auditStore)
	notifier := services.NewNotificationService()
	validator := services.NewTransactionValidator()
	limitEngine := services.NewLimitEngine(recordStore, config.DefaultLimitProfiles())
	fraudService := services.NewFraudDetectionService(recordStore)
	kycService := services.NewKYCService(config.LoadKYCConfig(), redisClient)
	currencyService := services.NewCurrencyService(config.DefaultExchangeRates())
	fundService := services.NewReserveFundService(
		recordStore, validator, limitEngine, fraudService, kycService, auditService, notifier)

	// Handlers
	fundHandler := handlers.NewReserveFundHandler(fundService)
	limitHandler := handlers.NewLimitHandler(limitEngine, kycService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Router
	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(mW.ActorContext)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public reference data
		r.Get("/currencies", currencyHandler.ListSupported)
		r.Get("/currencies/{code}", currencyHandler.Info)
		r.Get("/currencies/{code}/rates", currencyHandler.Rates)
		r.Post("/currencies/convert", currencyHandler.Convert)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			r.Route("/funds", func(r chi.Router) {
				r.Post("/deposit", fundHandler.Deposit)
				r.Post("/withdraw", fundHandler.Withdraw)
				r.Post("/transfer", fundHandler.Transfer)

				r.Get("/", fundHandler.ListAll)
				r.Get("/balance/total", fundHandler.TotalActiveBalance)
				r.Get("/reference/{reference}", fundHandler.GetByReference)
				r.Get("/status/{status}", fundHandler.ListByStatus)
				r.Get("/user/{userID}", fundHandler.ListByUser)
				r.Get("/user/{userID}/balance", fundHandler.Balance)
				r.Get("/user/{userID}/history", fundHandler.History)
				r.Get("/{id}", fundHandler.GetByID)
				r.Patch("/{id}/status", fundHandler.UpdateStatus)
				r.Delete("/{id}", fundHandler.Cancel)
			})

			r.Route("/limits", func(r chi.Router) {
				r.Get("/user/{userID}/remaining", limitHandler.Remaining)
				r.Post("/check", limitHandler.Check)
			})

			r.Route("/audits", func(r chi.Router) {
				r.Get("/entity/{entityType}/{entityID}", auditHandler.EntityTrail)
				r.Get("/user/{userID}", auditHandler.UserTrail)
				r.Get("/recent", auditHandler.Recent)
				r.Get("/action/{action}", auditHandler.ByAction)
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
