package routes

import (
	"github.com/CONADE/CONADE-Portal/src/controllers"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

func SetupSolicitudRoutes(router *gin.Engine, service *services.SolicitudService, sessions *services.SessionService, origins []string) {
	controller := controllers.NewSolicitudController(service)

	// Any signed-in user
	userGroup := router.Group("")
	userGroup.Use(middleware.AuthMiddleware(sessions), middleware.CSRF())
	{
		userGroup.GET("/mis-solicitudes", controller.List)
		userGroup.GET("/exportar-solicitudes", controller.Export)
		userGroup.GET("/detalles-solicitud/:categoria/:id", controller.Details)
		userGroup.GET("/imprimir-solicitud/:categoria/:id", controller.Print)
		userGroup.POST("/eliminar-solicitud/:categoria/:id", controller.Delete)
	}

	// Admin only
	adminGroup := router.Group("")
	adminGroup.Use(middleware.AuthMiddleware(sessions), middleware.RequireAdmin(), middleware.CSRF())
	{
		adminGroup.GET("/gestion-solicitudes", controller.List)
	}

	// JSON API
	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.SetupCORS(origins), middleware.AuthMiddleware(sessions))
	{
		apiGroup.GET("/solicitudes", controller.APIList)
	}
}
