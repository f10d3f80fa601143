package main

import (
	"context"
	"log"
	"time"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/config"
	"github.com/CONADE/CONADE-Portal/src/db"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/CONADE/CONADE-Portal/src/routes"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/CONADE/CONADE-Portal/src/templates"
	"github.com/gin-gonic/gin"
)

func main() {

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v\n", err)
	}

	// Database connection
	db, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v\n", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(&models.SessionModel{}); err != nil {
		log.Fatalf("Error during auto-migration: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Remote API and caches
	api := client.New(cfg.APIBaseURL, cfg.APITimeout, cfg.APIInsecureTLS)
	cache := services.NewCache()
	go cache.RunCleanup(ctx, time.Minute)

	// Decision notifications
	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.TelegramToken != "" {
		telegram, err := services.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("[NOTIFICACION] Telegram disabled: %v", err)
		} else {
			notifier = telegram
		}
	}

	// Services setup
	sessionService := services.NewSessionService(db, cfg.JWTSecret, cfg.SessionTTL)
	authService := services.NewAuthService(api, sessionService)
	catalogService := services.NewCatalogService(api, cache, cfg.CacheTTL)
	solicitudService := services.NewSolicitudService(api, catalogService, cache, cfg.CacheTTL)
	decisionService := services.NewDecisionService(api, notifier, cfg.ApproveAction)
	formService := services.NewFormService(api, catalogService)
	usuarioService := services.NewUsuarioService(api, catalogService)

	go sessionService.RunPurge(ctx, 15*time.Minute)

	// Gin router setup
	router := gin.Default()
	router.Use(middleware.SecurityHeaders())

	pages, err := templates.Load()
	if err != nil {
		log.Fatalf("Error parsing templates: %v\n", err)
	}
	router.SetHTMLTemplate(pages)

	// Routes setup
	routes.SetupAuthRoutes(router, authService, sessionService, solicitudService, cfg.SessionTTL)
	routes.SetupFormRoutes(router, formService, sessionService)
	routes.SetupSolicitudRoutes(router, solicitudService, sessionService, cfg.AllowedOrigins)
	routes.SetupDecisionRoutes(router, decisionService, solicitudService, sessionService)
	routes.SetupUsuarioRoutes(router, usuarioService, catalogService, sessionService)

	// Server run
	log.Printf("Server is running on %s\n", cfg.ServerHost)
	if err := router.Run(cfg.ServerHost); err != nil {
		log.Fatalf("Error starting server on %s: %v\n", cfg.ServerHost, err)
	}
}
