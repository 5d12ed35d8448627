package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banglabnb/config"
	"banglabnb/cron"
	"banglabnb/database"
	bookingRepoPkg "banglabnb/database/repository/booking"
	listingRepoPkg "banglabnb/database/repository/listing"
	paymentRepoPkg "banglabnb/database/repository/payment"
	payoutRepoPkg "banglabnb/database/repository/payout"
	tripRepoPkg "banglabnb/database/repository/trip"
	userRepoPkg "banglabnb/database/repository/user"
	"banglabnb/handlers"
	"banglabnb/middleware"
	"banglabnb/routes"
	"banglabnb/services/booking"
	"banglabnb/services/notification"
	"banglabnb/services/payment"
	"banglabnb/services/payout"
	"banglabnb/services/trip"
	"banglabnb/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bkRepo := bookingRepoPkg.NewMongoBookingRepo()
	trRepo := tripRepoPkg.NewMongoTripRepo()
	lsRepo := listingRepoPkg.NewMongoListingRepo()
	usRepo := userRepoPkg.NewMongoUserRepo()
	poRepo := payoutRepoPkg.NewMongoPayoutRepo()
	evRepo := paymentRepoPkg.NewMongoEventRepo()

	type indexEnsurer interface{ EnsureIndexes() error }
	for _, repo := range []interface{}{bkRepo, trRepo} {
		if ie, ok := repo.(indexEnsurer); ok {
			if err := ie.EnsureIndexes(); err != nil {
				logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
			}
		}
	}

	// services.
	queueClient := cron.NewQueueClient()
	notifier := notification.NewAsynqNotificationService(queueClient)
	directNotifier := notification.NewDirectNotificationService(usRepo)

	tripService := &trip.DefaultTripService{
		Repo:     trRepo,
		Notifier: notifier,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:     bkRepo,
		Listings: lsRepo,
		Trips:    tripService,
		Notifier: notifier,
	}
	paymentService := &payment.DefaultPaymentService{
		Bookings: bkRepo,
		Trips:    trRepo,
		Events:   evRepo,
		Gateway:  payment.NewSSLCommerzClient(),
		Notifier: notifier,
		Locker:   utils.GetLockClient(),
	}
	payoutService := &payout.DefaultPayoutService{
		Bookings:  bkRepo,
		Listings:  lsRepo,
		Payouts:   poRepo,
		Disburse:  payout.NewHTTPDisbursementClient(),
		Notifier:  notifier,
		HoldHours: config.AppConfig.PayoutHoldHours,
	}

	// Background worker and the hourly payout scan.
	cron.InitWorker(payoutService, directNotifier)
	cron.InitScheduler()

	routes.RegisterRoutes(router,
		handlers.NewBookingHandler(bookingService),
		handlers.NewTripHandler(tripService),
		handlers.NewPaymentHandler(paymentService, payoutService),
	)

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

	queueClient.Close()
	logger.Sugar().Info("main: server stopped gracefully")
}
