package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"pet-registry/internal/platform/httpclient"
)

var (
	ErrTelegramNotConfigured = errors.New("telegram not configured")
	ErrTelegramUpstream      = errors.New("telegram upstream error")
)

// Config del bot. Endpoint permite apuntar a un server de test.
type Config struct {
	Token    string
	ChatID   int64
	Silent   bool
	Endpoint string // formato tgbotapi: "https://api.telegram.org/bot%s/%s"
	Timeout  time.Duration
}

// Notifier manda mensajes Markdown a un chat fijo.
// El bot se crea en el primer Send (NewBotAPI hace getMe).
type Notifier struct {
	cfg     Config
	http    *httpclient.Client
	limiter *rate.Limiter

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

func NewNotifier(cfg Config, hc *httpclient.Client) *Notifier {
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.Endpoint == "" {
		cfg.Endpoint = tgbotapi.APIEndpoint
	}
	if hc == nil {
		hc = httpclient.New(cfg.Timeout)
	}
	return &Notifier{
		cfg:  cfg,
		http: hc,
		// ~1 msg/s por chat, con algo de ráfaga
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

func (n *Notifier) IsConfigured() bool {
	return n != nil && n.cfg.Token != "" && n.cfg.ChatID != 0
}

func (n *Notifier) Send(ctx context.Context, text string) error {
	if !n.IsConfigured() {
		return ErrTelegramNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	bot, err := n.client()
	if err != nil {
		return err
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.cfg.ChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableNotification = n.cfg.Silent

	if _, err := bot.Send(msg); err != nil {
		if !isParseError(err) {
			return fmt.Errorf("%w: %v", ErrTelegramUpstream, err)
		}
		// Markdown inválido (p.ej. "_" en un code): reintento como texto plano
		msg.ParseMode = ""
		if _, err := bot.Send(msg); err != nil {
			return fmt.Errorf("%w: %v", ErrTelegramUpstream, err)
		}
	}
	return nil
}

func (n *Notifier) client() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bot != nil {
		return n.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(n.cfg.Token, n.cfg.Endpoint, n.http.HTTP)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTelegramUpstream, err)
	}
	n.bot = bot
	return bot, nil
}

func isParseError(err error) bool {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return strings.Contains(strings.ToLower(tgErr.Message), "can't parse entities")
	}
	return strings.Contains(strings.ToLower(err.Error()), "can't parse entities")
}
