package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/CONADE/CONADE-Portal/src/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier announces decided requests
type Notifier interface {
	DecisionTomada(ctx context.Context, solicitud models.SolicitudModel, estado models.Estado, por string) error
}

// NoopNotifier is used when no chat is configured
type NoopNotifier struct{}

func (NoopNotifier) DecisionTomada(context.Context, models.SolicitudModel, models.Estado, string) error {
	return nil
}

// TelegramNotifier posts every decision to one Telegram chat
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// telegramTimeout bounds every Bot API call, including the getMe check done
// at startup before the server listens.
const telegramTimeout = 10 * time.Second

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	return newTelegramNotifier(token, tgbotapi.APIEndpoint, chatID, telegramTimeout)
}

func newTelegramNotifier(token, endpoint string, chatID int64, timeout time.Duration) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Printf("[NOTIFICACION] Authorized on account %s", api.Self.UserName)

	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func decisionText(s models.SolicitudModel, estado models.Estado, por string) string {
	icono := "✅"
	if estado.Is(models.EstadoRechazada) {
		icono = "❌"
	}
	text := fmt.Sprintf("%s %s #%d (serie %s) marcada como %s por %s.", icono, s.TipoSolicitud, s.Id, s.NumeroDeSerie, estado, por)
	if s.Observaciones != "" {
		text += "\nObservaciones: " + s.Observaciones
	}
	return text
}

func (n *TelegramNotifier) DecisionTomada(ctx context.Context, s models.SolicitudModel, estado models.Estado, por string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, decisionText(s, estado, por))
	if _, err := n.api.Send(msg); err != nil {
		log.Printf("[NOTIFICACION] Error sending message: %v", err)
		return err
	}
	return nil
}
