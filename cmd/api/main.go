package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "tripledger/docs"
	"tripledger/internal/config"
	"tripledger/internal/database"
	"tripledger/internal/expense"
	"tripledger/internal/refund"
	"tripledger/internal/trip"
	"tripledger/pkg/logging"
	mw "tripledger/pkg/middleware"
)

// @title           Trip Ledger API
// @version         1.0
// @description     Shared trip expense ledger with refunds and settlement suggestions.
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// LOG_LEVEL may come from the .env file, so logging goes second.
	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	slog.Info("connected to database")

	// Trip feature
	tripRepo := trip.NewRepository(db)
	tripService := trip.NewService(tripRepo)
	tripHandler := trip.NewHandler(tripService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, tripRepo)
	expenseHandler := expense.NewHandler(expenseService)

	// Refund feature
	refundRepo := refund.NewRepository(db)
	refundService := refund.NewService(refundRepo, expenseRepo, tripRepo)
	refundHandler := refund.NewHandler(refundService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", trip.Currencies)

		r.Group(func(r chi.Router) {
			r.Use(mw.Identity)

			r.Mount("/trips", tripHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/refunds", refundHandler.Routes())
		})
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
