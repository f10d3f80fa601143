package routes

import (
	"time"

	"github.com/CONADE/CONADE-Portal/src/controllers"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(router *gin.Engine, auth *services.AuthService, sessions *services.SessionService, solicitudes *services.SolicitudService, ttl time.Duration) {
	controller := controllers.NewAuthController(auth, sessions, solicitudes, ttl)

	// Public routes
	router.GET("/", controller.LoginPage)
	router.POST("/login", controller.Login)

	// Protected routes
	sessionGroup := router.Group("")
	sessionGroup.Use(middleware.AuthMiddleware(sessions), middleware.CSRF())
	{
		sessionGroup.POST("/logout", controller.Logout)
		sessionGroup.POST("/tema", controller.ToggleTheme)
	}
}
