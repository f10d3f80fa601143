package routes

import (
	"github.com/CONADE/CONADE-Portal/src/controllers"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

func SetupUsuarioRoutes(router *gin.Engine, service *services.UsuarioService, catalog *services.CatalogService, sessions *services.SessionService) {
	controller := controllers.NewUsuarioController(service, catalog)

	// Public routes
	router.GET("/registro", controller.RegistroPage)
	router.POST("/registro", controller.Registro)

	// Admin only
	adminGroup := router.Group("")
	adminGroup.Use(middleware.AuthMiddleware(sessions), middleware.RequireAdmin(), middleware.CSRF())
	{
		adminGroup.GET("/gestion-usuarios", controller.GetAllUsuarios)
		adminGroup.GET("/editar-usuario/:id", controller.EditPage)
		adminGroup.POST("/editar-usuario/:id", controller.Edit)
	}
}
