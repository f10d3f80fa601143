package controllers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/CONADE/CONADE-Portal/src/middleware"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/gin-gonic/gin"
)

// Delays before the page navigates away after a successful action
const (
	decisionRedirectDelay = 4 * time.Second
	formRedirectDelay     = 2 * time.Second
)

// render adds the session shell (user, role, theme, CSRF token) to every page
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	session := middleware.CurrentSession(c)
	data["Session"] = session
	data["Path"] = c.Request.URL.RequestURI()
	if session != nil {
		data["CSRF"] = session.CSRFToken
		data["Theme"] = session.Theme
	} else {
		data["Theme"] = models.ThemeLight
	}
	if _, ok := data["Error"]; !ok {
		data["Error"] = c.Query("error")
	}
	if _, ok := data["Success"]; !ok {
		data["Success"] = c.Query("ok")
	}
	c.HTML(status, name, data)
}

// redirectAfter fills the keys the layout uses to navigate after a delay
func redirectAfter(data gin.H, target string, delay time.Duration) gin.H {
	data["Redirect"] = target
	data["RedirectDelay"] = int(delay.Seconds())
	return data
}

// withFlash appends an ok or error message to a redirect target
func withFlash(target, key, message string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(key, message)
	u.RawQuery = q.Encode()
	return u.String()
}

// solicitudKey reads the :categoria slug and :id route parameters
func solicitudKey(c *gin.Context) (models.CategoriaSpec, int, bool) {
	spec, ok := models.CategoriaBySlug(c.Param("categoria"))
	if !ok {
		return models.CategoriaSpec{}, 0, false
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return models.CategoriaSpec{}, 0, false
	}
	return spec, id, true
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "Solicitud no encontrada")
}

// listPath is the request list the session works with
func listPath(session *models.SessionModel) string {
	if session.IsAdmin() {
		return "/gestion-solicitudes"
	}
	return "/mis-solicitudes"
}
