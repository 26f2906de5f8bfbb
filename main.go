package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/time/rate"

	"go-places/config"
	"go-places/handlers"
	"go-places/metrics"
	"go-places/middleware"
	"go-places/services"
	"go-places/utils/errors"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	cancel()
	if err != nil {
		slog.Error("MongoDB connection failed", "error", err)
		os.Exit(1)
	}
	if err := client.Ping(context.Background(), nil); err != nil {
		slog.Error("failed to ping MongoDB", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to MongoDB")
	db := client.Database(cfg.DBName)

	// Initialize services and handlers
	geoService := services.NewGeoService(cfg.GoogleAPIKey)
	placeService := services.NewPlaceService(db)
	userService := services.NewUserService(db, cfg.JWTSecret)
	if err := userService.EnsureIndexes(context.Background()); err != nil {
		slog.Error("failed to create user indexes", "error", err)
		os.Exit(1)
	}

	placeHandler := handlers.NewPlaceHandler(placeService, geoService)
	userHandler := handlers.NewUserHandler(userService)

	collector := metrics.NewCollector()
	limiter := middleware.NewRateLimiter(rate.Limit(2), 120)
	defer limiter.Stop()

	auth := middleware.JWTMiddleware(cfg.JWTSecret)
	upload := middleware.UploadMiddleware(cfg.UploadDir)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteError(w, req, errors.NewAPIError("Could not find this route.", http.StatusNotFound))
	})
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(collector.Middleware())
	// ErrorMiddleware must be innermost so handlers see its response
	// recorder and WriteError can detect an already-sent response.
	r.Use(middleware.ErrorMiddleware())

	r.Handle("/metrics", collector.Handler()).Methods("GET")

	// Uploaded images are served read-only.
	r.PathPrefix("/uploads/images/").Handler(
		http.StripPrefix("/uploads/images/",
			http.FileServer(http.Dir(cfg.UploadDir)))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.Middleware())

	// Place routes
	places := api.PathPrefix("/places").Subrouter()
	places.HandleFunc("/user/{userId}", placeHandler.GetPlacesByUserID).Methods("GET")
	places.HandleFunc("/{placeId}", placeHandler.GetPlaceByID).Methods("GET")
	places.Handle("", auth(upload(http.HandlerFunc(placeHandler.CreatePlace)))).Methods("POST", "OPTIONS")
	places.Handle("/{placeId}", auth(http.HandlerFunc(placeHandler.UpdatePlace))).Methods("PATCH", "OPTIONS")
	places.Handle("/{placeId}", auth(http.HandlerFunc(placeHandler.DeletePlace))).Methods("DELETE", "OPTIONS")

	// User routes
	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("", userHandler.GetUsers).Methods("GET")
	users.Handle("/signup", upload(http.HandlerFunc(userHandler.Signup))).Methods("POST", "OPTIONS")
	users.HandleFunc("/login", userHandler.Login).Methods("POST", "OPTIONS")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		slog.Error("MongoDB disconnect failed", "error", err)
	}
}
