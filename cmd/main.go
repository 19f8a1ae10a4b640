package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"taskhub/taskhub/broker"
	"taskhub/taskhub/config"
	"taskhub/taskhub/database"
	"taskhub/taskhub/logger"
	"taskhub/taskhub/middleware"
	"taskhub/taskhub/routes"
	"taskhub/taskhub/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	db, err := database.Setup(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// The broker is best-effort: mutations still commit when NATS is down,
	// events just stop flowing.
	if err := broker.InitProducer(cfg, log); err != nil {
		log.WithError(err).Warn("Failed to initialize NATS producer, events are disabled")
	} else {
		defer broker.CloseProducer()
	}

	authService := services.NewAuthService(cfg)
	services.AuthServiceInstance = authService

	userService := services.NewUserService(authService)
	services.UserServiceInstance = userService

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	routes.RegisterHealthRoutes(router, db)
	routes.RegisterAuthRoutes(router, db, authService, userService)
	routes.RegisterUserRoutes(router, db, userService, authService)
	routes.RegisterCategoryRoutes(router, db, services.CategoryServiceInstance, authService)
	routes.RegisterTaskRoutes(router, db, services.TaskServiceInstance, authService)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("Shutting down server...")
		broker.CloseProducer()
		db.Close()
		os.Exit(0)
	}()

	log.WithField("port", cfg.AppPort).Info("Starting server")
	if err := router.Run(":" + cfg.AppPort); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}
