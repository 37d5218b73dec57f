package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/equalpay/equalpay/docs"
	"github.com/equalpay/equalpay/internal/balance"
	"github.com/equalpay/equalpay/internal/config"
	"github.com/equalpay/equalpay/internal/dashboard"
	"github.com/equalpay/equalpay/internal/database"
	"github.com/equalpay/equalpay/internal/expense"
	expensesplit "github.com/equalpay/equalpay/internal/expense/split"
	"github.com/equalpay/equalpay/internal/group"
	"github.com/equalpay/equalpay/internal/settlement"
	"github.com/equalpay/equalpay/internal/user"
	mw "github.com/equalpay/equalpay/pkg/middleware"
)

// @title           EqualPay API
// @version         1.0
// @description     Shared expense tracking with flexible splits, balance sheets and settlement suggestions
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Split Strategy Factory (Factory Pattern)
	splitFactory := expensesplit.NewSplitStrategyFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo)
	groupHandler := group.NewHandler(groupService)

	// Expense feature (with split factory injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupRepo, splitFactory)
	expenseHandler := expense.NewHandler(expenseService)

	// Balance feature (computed on demand, never persisted)
	balanceService := balance.NewService(groupRepo, expenseRepo)
	balanceHandler := balance.NewHandler(balanceService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, groupRepo)
	settlementHandler := settlement.NewHandler(settlementService)

	// Dashboard feature
	dashboardService := dashboard.NewService(expenseService, expenseRepo, groupRepo, balanceService, settlementService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	r := newRouter(cfg,
		userHandler.Routes(),
		groupHandler.Routes(),
		expenseHandler.Routes(),
		balanceHandler.Routes(),
		settlementHandler.Routes(),
		dashboardHandler.Routes(),
	)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// newRouter assembles the middleware stack and mounts every feature router.
// Health and swagger stay public; authentication applies to /api/v1 only.
// With JWT_SECRET unset the API runs in dev mode behind the test-user
// middleware.
func newRouter(cfg *config.Config, users, groups, expenses, balances, settlements, dashboards chi.Router) *chi.Mux {
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
		if cfg.JWTSecret != "" {
			r.Use(mw.Auth(cfg.JWTSecret))
		} else {
			r.Use(mw.TestUserMiddleware)
		}

		// Mount feature routers
		r.Mount("/users", users)
		r.Mount("/groups", groups)
		r.Mount("/expenses", expenses)
		r.Mount("/balances", balances)
		r.Mount("/settlements", settlements)
		r.Mount("/dashboard", dashboards)
	})

	return r
}
