package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "portal_session"
	sessionKey    = "session"
	LoginPath     = "/"
)

var errNoSession = errors.New("sesión requerida")

// SessionResolver turns the cookie token into a live session
type SessionResolver interface {
	Resolve(token string) (*models.SessionModel, error)
}

func wantsJSON(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.Request.URL.Path, "/api/") ||
		strings.Contains(ctx.GetHeader("Accept"), "application/json")
}

func AuthMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// Gets the session cookie
		token, err := ctx.Cookie(SessionCookie)
		if err != nil || strings.TrimSpace(token) == "" {
			reject(ctx, errNoSession)
			return
		}

		// Verifies the token and loads the session
		session, err := sessions.Resolve(token)
		if err != nil {
			ClearSessionCookie(ctx)
			reject(ctx, err)
			return
		}

		ctx.Set(sessionKey, session)
		ctx.Set("userId", session.UsuarioID)
		ctx.Next()
	}
}

func reject(ctx *gin.Context, err error) {
	if wantsJSON(ctx) {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	ctx.Redirect(http.StatusSeeOther, LoginPath)
	ctx.Abort()
}

// RequireAdmin lets only Admin sessions through. It must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !CurrentSession(ctx).IsAdmin() {
			if wantsJSON(ctx) {
				ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acceso restringido a administradores"})
				return
			}
			ctx.String(http.StatusForbidden, "Acceso restringido a administradores")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentSession returns the session set by AuthMiddleware, or nil
func CurrentSession(ctx *gin.Context) *models.SessionModel {
	value, exists := ctx.Get(sessionKey)
	if !exists {
		return nil
	}
	session, _ := value.(*models.SessionModel)
	return session
}

func SetSessionCookie(ctx *gin.Context, token string, ttl time.Duration) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", ctx.Request.TLS != nil, true)
}

func ClearSessionCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(SessionCookie, "", -1, "/", "", ctx.Request.TLS != nil, true)
}
