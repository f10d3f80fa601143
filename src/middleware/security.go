package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CSRFField  = "csrf_token"
	CSRFHeader = "X-CSRF-Token"
)

const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; img-src 'self' data:"

func SecurityHeaders() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		h := ctx.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		ctx.Next()
	}
}

// CSRF rejects state-changing requests whose token does not match the
// session's. It must run after AuthMiddleware.
func CSRF() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		switch ctx.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			ctx.Next()
			return
		}

		session := CurrentSession(ctx)
		token := strings.TrimSpace(ctx.GetHeader(CSRFHeader))
		if token == "" {
			token = strings.TrimSpace(ctx.PostForm(CSRFField))
		}
		if session == nil || token == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(session.CSRFToken)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token CSRF inválido"})
			return
		}
		ctx.Next()
	}
}
