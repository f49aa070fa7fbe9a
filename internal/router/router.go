package router

import (
	"database/sql"
	"net/http"

	"pizza-service/internal/config"
	"pizza-service/internal/handlers"
	"pizza-service/internal/middleware"
	"pizza-service/internal/models"
	"pizza-service/internal/services"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(db *sql.DB, rdb *redis.Client, cfg config.Config, logger zerolog.Logger) *mux.Router {
	userService := services.NewUserService(db, logger)
	sessionService := services.NewSessionService(rdb, cfg.JWTSecret, cfg.TokenTTL, logger)
	menuService := services.NewMenuService(db, logger)
	franchiseService := services.NewFranchiseService(db, logger)
	orderService := services.NewOrderService(db, cfg.JWTSecret, logger)

	authHandler := handlers.NewAuthHandler(userService, sessionService, logger)
	orderHandler := handlers.NewOrderHandler(menuService, orderService, logger)
	franchiseHandler := handlers.NewFranchiseHandler(franchiseService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(50), 100)

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth", authHandler.Login).Methods("PUT")
	api.HandleFunc("/auth", authHandler.Logout).Methods("DELETE")

	api.HandleFunc("/order/menu", orderHandler.GetMenu).Methods("GET")
	api.HandleFunc("/franchise", franchiseHandler.List).Methods("GET")

	authn := middleware.Authentication(sessionService, userService, logger)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authn)
	protected.HandleFunc("/order", orderHandler.CreateOrder).Methods("POST")
	protected.HandleFunc("/order", orderHandler.GetOrders).Methods("GET")
	protected.HandleFunc("/franchise/{userId:[0-9]+}", franchiseHandler.ListForUser).Methods("GET")
	protected.Handle("/franchise", adminOnly(http.HandlerFunc(franchiseHandler.Create))).Methods("POST")
	protected.Handle("/franchise/{id:[0-9]+}", adminOnly(http.HandlerFunc(franchiseHandler.Delete))).Methods("DELETE")
	protected.HandleFunc("/franchise/{id:[0-9]+}/store", franchiseHandler.CreateStore).Methods("POST")
	protected.HandleFunc("/franchise/{id:[0-9]+}/store/{storeId:[0-9]+}", franchiseHandler.DeleteStore).Methods("DELETE")

	r.HandleFunc("/docs", handlers.Docs).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
