package main

import (
	"flag"
	"log"

	"github.com/CONADE/CONADE-Portal/src/config"
	"github.com/CONADE/CONADE-Portal/src/db"
	"github.com/CONADE/CONADE-Portal/src/models"
	"github.com/CONADE/CONADE-Portal/src/services"
)

// Maintenance for the session store: purges expired sessions and, with
// -usuario, signs one user out of every browser (after a role change, say).
func main() {
	usuarioID := flag.Int("usuario", 0, "cerrar todas las sesiones de este usuario")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Migrate schema if not exists
	if err := conn.AutoMigrate(&models.SessionModel{}); err != nil {
		log.Fatalf("failed to migrate session model: %v", err)
	}

	sessions := services.NewSessionService(conn, cfg.JWTSecret, cfg.SessionTTL)

	if *usuarioID > 0 {
		n, err := sessions.RevokeUsuario(*usuarioID)
		if err != nil {
			log.Fatalf("failed to revoke sessions: %v", err)
		}
		log.Printf("%d sessions of user %d revoked", n, *usuarioID)
	}

	n, err := sessions.PurgeExpired()
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	log.Printf("%d expired sessions purged", n)
}
