package routes

import (
	"github.com/CONADE/CONADE-Portal/src/controllers"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

func SetupFormRoutes(router *gin.Engine, service *services.FormService, sessions *services.SessionService) {
	controller := controllers.NewFormController(service)

	// Protected routes
	formGroup := router.Group("")
	formGroup.Use(middleware.AuthMiddleware(sessions), middleware.CSRF())
	{
		formGroup.GET("/panel-principal", controller.Dashboard)
		formGroup.GET("/solicitud/:categoria", controller.Page)
		formGroup.POST("/solicitud/:categoria", controller.Submit)
	}
}
