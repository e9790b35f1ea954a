// Package notify pushes critical greenhouse alerts to an operator.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"greenhouse/entities"
)

type Notifier interface {
	Notify(ctx context.Context, a entities.Alert) error
}

func Format(a entities.Alert) string {
	return fmt.Sprintf("[%s] %s\n%s\n%s", a.Tier, a.Title, a.Description, a.CreatedAt.Format("2006-01-02 15:04 MST"))
}

type logNotifier struct{ log *zap.Logger }

// NewLog only writes alerts to the log.
func NewLog(log *zap.Logger) Notifier { return &logNotifier{log: log.Named("notify")} }

func (n *logNotifier) Notify(_ context.Context, a entities.Alert) error {
	n.log.Warn("alert", zap.String("metric", a.Metric), zap.String("tier", a.Tier),
		zap.Float64("value", a.Value), zap.String("title", a.Title))
	return nil
}

// sender is the slice of the bot API used here.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramNotifier struct {
	bot    sender
	chatID int64
	log    *zap.Logger
}

// NewTelegram authorizes the bot token and sends alerts to chatID.
func NewTelegram(token string, chatID int64, log *zap.Logger) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	log = log.Named("notify")
	log.Info("telegram notifier ready", zap.String("bot", bot.Self.UserName))
	return &telegramNotifier{bot: bot, chatID: chatID, log: log}, nil
}

func (n *telegramNotifier) Notify(ctx context.Context, a entities.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, Format(a))
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Warn("telegram send failed", zap.Error(err))
		return err
	}
	return nil
}
