package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hotel-booking-backend/config"
	"hotel-booking-backend/controllers"
	"hotel-booking-backend/routes"
	"hotel-booking-backend/services"
	"hotel-booking-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	utils.SetProduction(cfg.IsProduction())

	if err := config.ConnectDatabase(cfg); err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	db := config.DB
	logrus.Info("database connection established and migrations applied")

	// Initialize services
	availabilityService := services.NewAvailabilityService(db)
	roomService := services.NewRoomService(db)
	bookingService := services.NewBookingService(db, availabilityService, cfg)
	authService := services.NewAuthService(db, cfg)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	roomController := controllers.NewRoomController(roomService, availabilityService)
	bookingController := controllers.NewBookingController(bookingService)

	router := routes.SetupRouter(cfg, authController, roomController, bookingController)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("ListenAndServe()")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Warn("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server stopped gracefully")
}
