package routes

import (
	"github.com/CONADE/CONADE-Portal/src/controllers"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

func SetupDecisionRoutes(router *gin.Engine, decisions *services.DecisionService, solicitudes *services.SolicitudService, sessions *services.SessionService) {
	controller := controllers.NewDecisionController(decisions, solicitudes)

	// Admin only
	adminGroup := router.Group("")
	adminGroup.Use(middleware.AuthMiddleware(sessions), middleware.RequireAdmin(), middleware.CSRF())
	{
		adminGroup.GET("/aprobar-solicitud/:categoria/:id", controller.Page(services.DecisionAprobar))
		adminGroup.POST("/aprobar-solicitud/:categoria/:id", controller.Submit(services.DecisionAprobar))
		adminGroup.GET("/rechazar-solicitud/:categoria/:id", controller.Page(services.DecisionRechazar))
		adminGroup.POST("/rechazar-solicitud/:categoria/:id", controller.Submit(services.DecisionRechazar))
	}
}
