package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/CONADE/CONADE-Portal/src/client"
	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/CONADE/CONADE-Portal/src/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth        *services.AuthService
	sessions    *services.SessionService
	solicitudes *services.SolicitudService
	ttl         time.Duration
}

func NewAuthController(auth *services.AuthService, sessions *services.SessionService, solicitudes *services.SolicitudService, ttl time.Duration) *AuthController {
	return &AuthController{auth: auth, sessions: sessions, solicitudes: solicitudes, ttl: ttl}
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	// An open session goes straight to its home page
	if token, err := c.Cookie(middleware.SessionCookie); err == nil && token != "" {
		if session, err := ac.sessions.Resolve(token); err == nil {
			c.Redirect(http.StatusSeeOther, session.HomePath())
			return
		}
	}
	render(c, http.StatusOK, "login.html", gin.H{"NombreUsuario": ""})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"Error": "Credenciales incorrectas, intenta de nuevo.", "NombreUsuario": ""})
		return
	}

	session, token, err := ac.auth.Login(c.Request.Context(), req)
	if err != nil {
		status := http.StatusUnauthorized
		var transport *client.TransportError
		if errors.As(err, &transport) {
			status = http.StatusBadGateway
		}
		render(c, status, "login.html", gin.H{
			"Error":         services.Message(err, "Credenciales incorrectas, intenta de nuevo."),
			"NombreUsuario": req.NombreUsuario,
		})
		return
	}

	middleware.SetSessionCookie(c, token, ac.ttl)
	c.Redirect(http.StatusSeeOther, session.HomePath())
}

func (ac *AuthController) Logout(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if err := ac.auth.Logout(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if session != nil {
		ac.solicitudes.Forget(session)
	}
	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// ToggleTheme switches between dark and light and goes back to the page
func (ac *AuthController) ToggleTheme(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if _, err := ac.sessions.ToggleTheme(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	back := c.PostForm("volver")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = session.HomePath()
	}
	c.Redirect(http.StatusSeeOther, back)
}
