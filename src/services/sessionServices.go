package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidSession = errors.New("sesión inválida")
	ErrSessionExpired = errors.New("la sesión ha expirado")
)

type SessionService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionService creates a new instance of SessionService
func NewSessionService(db *gorm.DB, secret string, ttl time.Duration) *SessionService {
	return &SessionService{db: db, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func newCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Create stores a session for the signed-in user and returns it with the
// token that goes into the cookie.
func (s *SessionService) Create(usuario *models.UsuarioModel) (*models.SessionModel, string, error) {
	csrf, err := newCSRFToken()
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	session := &models.SessionModel{
		ID:            uuid.NewString(),
		UsuarioID:     usuario.Id,
		NombreUsuario: usuario.NombreUsuario,
		Rol:           models.NormalizeRol(string(usuario.Rol)),
		AreaID:        usuario.AreaID,
		Theme:         models.ThemeLight,
		CSRFToken:     csrf,
		ExpiresAt:     now.Add(s.ttl),
	}
	if result := s.db.Create(session); result.Error != nil {
		return nil, "", result.Error
	}

	claims := jwt.MapClaims{
		"sid": session.ID,
		"id":  session.UsuarioID,
		"exp": session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, "", err
	}

	log.Printf("[SESION] %s inició sesión (%s)", session.NombreUsuario, session.Rol)
	return session, tokenString, nil
}

// Resolve verifies the cookie token and loads its session
func (s *SessionService) Resolve(tokenString string) (*models.SessionModel, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSession
	}
	if !token.Valid {
		return nil, ErrInvalidSession
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, ErrInvalidSession
	}

	var session models.SessionModel
	result := s.db.Where("id = ?", sid).First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, result.Error
	}

	if id, ok := claims["id"].(float64); !ok || int(id) != session.UsuarioID {
		return nil, ErrInvalidSession
	}
	if session.Expired(s.now()) {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// ToggleTheme flips between light and dark and returns the new theme
func (s *SessionService) ToggleTheme(session *models.SessionModel) (string, error) {
	theme := models.ThemeDark
	if session.Theme == models.ThemeDark {
		theme = models.ThemeLight
	}
	result := s.db.Model(&models.SessionModel{}).Where("id = ?", session.ID).Update("theme", theme)
	if result.Error != nil {
		return session.Theme, result.Error
	}
	session.Theme = theme
	return theme, nil
}

// Delete ends a session (logout)
func (s *SessionService) Delete(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.SessionModel{})
	return result.Error
}

// RevokeUsuario ends every session of one user
func (s *SessionService) RevokeUsuario(usuarioID int) (int64, error) {
	result := s.db.Where("usuario_id = ?", usuarioID).Delete(&models.SessionModel{})
	return result.RowsAffected, result.Error
}

// PurgeExpired deletes every expired session
func (s *SessionService) PurgeExpired() (int64, error) {
	result := s.db.Where("expires_at <= ?", s.now()).Delete(&models.SessionModel{})
	return result.RowsAffected, result.Error
}

// RunPurge calls PurgeExpired every interval until ctx is done
func (s *SessionService) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired()
			if err != nil {
				log.Printf("[SESION] error al depurar sesiones: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[SESION] %d sesiones expiradas eliminadas", n)
			}
		}
	}
}
