package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gharseva/config"
	"gharseva/cron"
	"gharseva/database"
	"gharseva/handlers"
	"gharseva/middleware"
	"gharseva/routes"
	"gharseva/utils"

	assignmentRepoPkg "gharseva/database/repository/assignment"
	blacklistRepoPkg "gharseva/database/repository/blacklist"
	bookingRepoPkg "gharseva/database/repository/booking"
	catalogRepoPkg "gharseva/database/repository/catalog"
	earningsRepoPkg "gharseva/database/repository/earnings"
	notificationRepoPkg "gharseva/database/repository/notification"
	paymentRepoPkg "gharseva/database/repository/payment"
	ratingRepoPkg "gharseva/database/repository/rating"
	userRepoPkg "gharseva/database/repository/user"

	"gharseva/services/admin"
	"gharseva/services/assignment"
	"gharseva/services/booking"
	"gharseva/services/catalog"
	"gharseva/services/earnings"
	"gharseva/services/notification"
	"gharseva/services/payment"
	"gharseva/services/rating"
	"gharseva/services/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	utils.StartHealthMonitor(database.MongoClient, map[string]*redis.Client{
		"redis-auth": utils.GetAuthCacheClient(),
		"redis-otp":  utils.GetOTPCacheClient(),
	})

	imageStore, err := utils.NewImageStore()
	if err != nil {
		logger.Sugar().Warnf("main: image store disabled: %v", err)
		imageStore = nil
	}

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	users := userRepoPkg.NewMongoUserRepo()
	catalogStore := catalogRepoPkg.NewMongoCatalogRepo()
	bookings := bookingRepoPkg.NewMongoBookingRepo()
	assignments := assignmentRepoPkg.NewMongoAssignmentRepo()
	earningRows := earningsRepoPkg.NewMongoEarningsRepo()
	notifications := notificationRepoPkg.NewMongoNotificationRepo()
	ratings := ratingRepoPkg.NewMongoRatingRepo()
	blacklist := blacklistRepoPkg.NewMongoBlacklistRepo()
	payments := paymentRepoPkg.NewMongoPaymentRepo()

	// Services.
	userService := user.NewUserService(users)
	catalogService := catalog.NewCatalogService(catalogStore, users)
	notificationService := notification.NewNotificationService(notifications, users, queueClient)
	bookingService := booking.NewBookingService(bookings, catalogStore, users, notificationService)
	assignmentService := assignment.NewAssignmentService(assignments, bookings, users, notificationService)
	earningsService := earnings.NewEarningsService(earningRows)
	paymentService := payment.NewPaymentService(payments, bookings)
	ratingService := rating.NewRatingService(ratings, bookings, catalogStore)
	adminService := admin.NewAdminService(users, bookings, catalogStore, earningRows, blacklist)

	// Background worker: async tasks and periodic jobs.
	worker := &cron.Worker{
		NotifSvc:    notificationService,
		AdminSvc:    adminService,
		BookingRepo: bookings,
		RatingRepo:  ratings,
		CatalogRepo: catalogStore,
	}
	worker.Start()

	handlerBundle := &handlers.HandlerBundle{
		UserSvc:         userService,
		CatalogSvc:      catalogService,
		BookingSvc:      bookingService,
		AssignmentSvc:   assignmentService,
		EarningsSvc:     earningsService,
		PaymentSvc:      paymentService,
		RatingSvc:       ratingService,
		NotificationSvc: notificationService,
		AdminSvc:        adminService,
		Images:          imageStore,
	}

	routes.RegisterRoutes(router, handlerBundle)

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
