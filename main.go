// File: skybook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skybook/config"
	"skybook/cron"
	"skybook/database"
	bookingRepoPkg "skybook/database/repository/booking"
	flightRepoPkg "skybook/database/repository/flight"
	paymentRepoPkg "skybook/database/repository/payment"
	userRepoPkg "skybook/database/repository/user"
	"skybook/handlers"
	"skybook/routes"
	"skybook/services/booking"
	"skybook/services/flight"
	"skybook/services/payment"
	"skybook/services/user"
	"skybook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	flightRepo := flightRepoPkg.NewMongoFlightRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo:   userRepo,
		Logger: logger,
	}
	flightService := &flight.DefaultFlightService{
		Repo:        flightRepo,
		BookingRepo: bookingRepo,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:       bookingRepo,
		FlightRepo: flightRepo,
	}
	paymentService := &payment.DefaultPaymentService{
		Repo:        paymentRepo,
		BookingRepo: bookingRepo,
		Gateway:     payment.NewPaystackGateway(config.AppConfig),
		Logger:      logger,
		FrontendURL: config.AppConfig.FrontendURL,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Users:    handlers.NewUserHandler(userService),
		Flights:  handlers.NewFlightHandler(flightService),
		Bookings: handlers.NewBookingHandler(bookingService),
		Payments: handlers.NewPaymentHandler(paymentService),
		Webhooks: handlers.NewWebhookHandler(paymentService),
		UserRepo: userRepo,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background expiry sweep for lapsed payment holds.
	cron.InitExpiryWorker(bookingService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
