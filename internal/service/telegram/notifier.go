package telegram

import (
	"context"
	"fmt"
	"time"

	pkghttp "LevelScan/pkg/http"
	applogger "LevelScan/pkg/logger"
)

const apiBase = "https://api.telegram.org"

// Notifier delivers alert messages to a Telegram chat via the Bot API.
type Notifier struct {
	token  string
	chatID string
	client *pkghttp.Client
	l      *applogger.Logger
}

type Config struct {
	BotToken string
	ChatID   string
	Timeout  time.Duration
}

func NewNotifier(cfg Config, l *applogger.Logger) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Notifier{
		token:  cfg.BotToken,
		chatID: cfg.ChatID,
		client: pkghttp.NewClient(pkghttp.WithTimeout(cfg.Timeout)),
		l:      l,
	}, nil
}

func (n *Notifier) Notify(ctx context.Context, text string) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    text,
	}
	var resp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", apiBase, n.token)
	if err := n.client.PostJSON(ctx, url, payload, &resp); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram send: %s", resp.Description)
	}
	if n.l != nil {
		n.l.Debug("telegram message delivered", applogger.String("chat_id", n.chatID))
	}
	return nil
}
