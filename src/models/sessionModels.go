package models

import "time"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// SessionModel is the signed-in identity of one browser. It replaces the
// usuario/idUsuario/rol/areaId/theme keys the portal used to keep client-side.
type SessionModel struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UsuarioID     int       `json:"usuarioId" gorm:"column:usuario_id;not null;index"`
	NombreUsuario string    `json:"nombreUsuario" gorm:"column:nombre_usuario;type:varchar(255);not null"`
	Rol           Rol       `json:"rol" gorm:"type:varchar(20);not null"`
	AreaID        int       `json:"areaId" gorm:"column:area_id"`
	Theme         string    `json:"theme" gorm:"type:varchar(10);not null;default:'light'"`
	CSRFToken     string    `json:"-" gorm:"column:csrf_token;type:varchar(64);not null"`
	ExpiresAt     time.Time `json:"expiresAt" gorm:"column:expires_at;not null;index"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (s *SessionModel) IsAdmin() bool {
	return s != nil && s.Rol == RolAdmin
}

func (s *SessionModel) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// HomePath is where the role lands after login
func (s *SessionModel) HomePath() string {
	if s.IsAdmin() {
		return "/gestion-solicitudes?recargar=1"
	}
	return "/panel-principal"
}
