package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/routes"
	"go-storefront/store"
	"go-storefront/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, proceeding with environment variables")
	}

	cfg := config.MustLoad()
	log := utils.SetupLogger(cfg.Env)
	production := cfg.Env != "local"

	utils.JwtKey = []byte(cfg.JWTSecret)

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Error("failed to connect to mongodb", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect mongodb client", slog.Any("error", err))
		}
	}()

	db := client.Database(cfg.DBName)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Error("failed to create indexes", slog.Any("error", err))
		os.Exit(1)
	}

	// Stores
	userStore := store.NewUserStore(db, log)
	productStore := store.NewProductStore(db, log)
	addressStore := store.NewAddressStore(db, log)
	orderStore := store.NewOrderStore(db, log)

	var emailService *utils.EmailService
	if cfg.SendGridKey != "" {
		emailService = utils.NewEmailService(cfg.SendGridKey, cfg.EmailSender)
	}

	// Controllers
	userController := controllers.NewUserController(userStore, production, log)
	sellerController := controllers.NewSellerController(userStore, cfg.SellerEmail, cfg.SellerPassword, production, log)
	productController := controllers.NewProductController(productStore, log)
	cartController := controllers.NewCartController(userStore, log)
	addressController := controllers.NewAddressController(addressStore, log)
	orderController := controllers.NewOrderController(orderStore, userStore, emailService, log)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, sellerController, productController, cartController, addressController, orderController)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      cors(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
