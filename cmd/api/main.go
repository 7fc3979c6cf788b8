package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caminoapp/camino-backend/internal/config"
	"github.com/caminoapp/camino-backend/internal/database"
	"github.com/caminoapp/camino-backend/internal/events"
	"github.com/caminoapp/camino-backend/internal/handlers"
	"github.com/caminoapp/camino-backend/internal/middleware"
	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/internal/observability"
	"github.com/caminoapp/camino-backend/internal/offers"
	"github.com/caminoapp/camino-backend/internal/services"
	"github.com/caminoapp/camino-backend/internal/store"
	"github.com/caminoapp/camino-backend/internal/trips"
	"github.com/caminoapp/camino-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database", logger.Err(err))
	}

	tripStore := store.NewTripStore(db)
	offerStore := store.NewOfferStore(db)
	userStore := store.NewUserStore(db)

	// Redis geo index is optional; without it nearby search scans the
	// database.
	var tripIndex trips.Index
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := services.NewRedisClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, nearby search will scan the database", logger.Err(err))
		} else {
			tripIndex = services.NewTripIndex(client)
			log.Info("redis trip index enabled")
		}
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kp.Close()
		publisher = kp
		log.Info("kafka event publishing enabled", logger.String("topic", cfg.Kafka.Topic))
	}

	storage, err := services.NewStorage(cfg.Storage, log)
	if err != nil {
		log.Fatal("failed to initialize storage", logger.Err(err))
	}

	hub := services.NewHub(log)
	go hub.Run()

	tripSvc := trips.NewService(tripStore, tripIndex)
	offerSvc := offers.NewService(offerStore, tripStore)

	if tripIndex != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := tripSvc.WarmIndex(ctx); err != nil {
			log.Warn("failed to warm trip geo index", logger.Err(err))
		}
		cancel()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.GinMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.Static("/uploads", cfg.Storage.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "wsClients": hub.ConnectedClients()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(userStore, cfg.JWT))
			auth.POST("/login", handlers.Login(userStore, cfg.JWT))
		}

		api.GET("/ws", middleware.AuthMiddleware(cfg.JWT.Secret), handlers.WebSocket(hub))

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(userStore))
				users.PUT("/profile", handlers.UpdateProfile(userStore))
				users.POST("/avatar", handlers.UploadAvatar(userStore, storage))
			}

			tripRoutes := protected.Group("/trips")
			{
				tripRoutes.POST("", middleware.RequireRole(models.RolePassenger), handlers.CreateTrip(tripSvc, hub, publisher))
				tripRoutes.GET("/nearby", middleware.RequireRole(models.RoleDriver), handlers.NearbyTrips(tripSvc, cfg.Nearby))
				tripRoutes.GET("/history", handlers.TripHistory(tripSvc))
				tripRoutes.GET("/:id", handlers.GetTrip(tripSvc))
				tripRoutes.PATCH("/:id/status", handlers.UpdateTripStatus(tripSvc, hub, publisher))
			}

			offerRoutes := protected.Group("/offers")
			{
				offerRoutes.POST("", middleware.RequireRole(models.RoleDriver), handlers.SubmitOffer(offerSvc, tripSvc, hub, publisher))
				offerRoutes.GET("/by-trip/:tripId", handlers.ListOffersByTrip(offerSvc))
				offerRoutes.POST("/:id/accept", middleware.RequireRole(models.RolePassenger), handlers.AcceptOffer(offerSvc, tripSvc, hub, publisher))
			}

			pricingRoutes := protected.Group("/pricing")
			{
				pricingRoutes.GET("/estimate", handlers.EstimatePrice())
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", handlers.AdminListUsers(userStore))
				admin.GET("/trips", handlers.AdminListTrips(tripStore))
			}
		}
	}

	log.Info("server starting", logger.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("failed to start server", logger.Err(err))
	}
}
