package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/islandhop/booking-backend/internal/cache"
	"github.com/islandhop/booking-backend/internal/config"
	"github.com/islandhop/booking-backend/internal/database"
	"github.com/islandhop/booking-backend/internal/handlers"
	"github.com/islandhop/booking-backend/internal/middleware"
	"github.com/islandhop/booking-backend/internal/services"
	"github.com/islandhop/booking-backend/internal/utils"
	"github.com/islandhop/booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting IslandHop Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Redis is optional; without it every availability read hits Postgres
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	availCache := cache.NewAvailabilityCache(redisClient, cfg.Booking.CacheTTL)
	if err := availCache.Ping(context.Background()); err != nil {
		logger.WithError(err).Warn("Redis unreachable, availability cache degraded to pass-through")
	} else if cfg.Redis.Enabled {
		logger.Info("Redis connection established")
	}

	location := cfg.Location()
	logger.Infof("Operating timezone: %s", location)

	// Repositories
	slotRepo := database.NewSlotRepository(db)
	packageRepo := database.NewPackageRepository(db)
	cartRepo := database.NewCartRepository(db)
	bookingRepo := database.NewBookingRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	availabilityService := services.NewAvailabilityService(slotRepo, availCache, logger)
	reservationService := services.NewReservationService(packageRepo, slotRepo, bookingRepo, availCache, logger)
	checkoutService := services.NewCheckoutService(cartRepo, packageRepo, reservationService,
		location, cfg.Booking.MaxCartItems, logger)

	// Handlers
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, packageRepo)
	bookingHandler := handlers.NewBookingHandler(reservationService)
	cartHandler := handlers.NewCartHandler(checkoutService)
	slotHandler := handlers.NewSlotHandler(availabilityService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	{
		// Public browse endpoints
		v1.GET("/packages", availabilityHandler.ListPackages)
		v1.GET("/packages/:id", availabilityHandler.GetPackage)
		v1.GET("/packages/:id/availability", availabilityHandler.GetAvailability)
		v1.POST("/quote", bookingHandler.Quote)

		// Booking endpoints (protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
		}

		// Cart endpoints (protected)
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthMiddleware(jwtService))
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.POST("/items/:id/checkout", cartHandler.CheckoutItem)
			cart.POST("/checkout", cartHandler.Checkout)
		}

		// Operator slot management (protected, operator or admin role)
		admin := v1.Group("/admin/slots")
		admin.Use(middleware.AuthMiddleware(jwtService))
		admin.Use(middleware.RequireRole(middleware.RoleOperator, middleware.RoleAdmin))
		{
			admin.POST("", slotHandler.CreateSlot)
			admin.PUT("/availability", slotHandler.SetAvailability)
			admin.PUT("/minimum", slotHandler.SetMinimum)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logger.Info("Server exited")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		device := utils.ParseUserAgent(c.Request.UserAgent())

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         utils.GetRealIP(c),
			"latency_ms": latency.Milliseconds(),
			"device":     device.DeviceType,
			"os":         device.OS,
			"browser":    device.Browser,
		}
		if device.IsBot {
			fields["bot"] = true
		}
		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
