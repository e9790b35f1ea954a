package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greenhouse/entities"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, f.err
}

var sample = entities.Alert{
	Metric: "co2", Tier: "critical", Value: 1200,
	Title: "High CO2", Description: "CO2 is 1200 ppm",
	CreatedAt: time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC),
}

func TestTelegramNotifier(t *testing.T) {
	fs := &fakeSender{}
	n := &telegramNotifier{bot: fs, chatID: 42, log: zap.NewNop()}
	require.NoError(t, n.Notify(context.Background(), sample))
	require.Len(t, fs.sent, 1)
	assert.Equal(t, int64(42), fs.sent[0].ChatID)
	assert.Contains(t, fs.sent[0].Text, "[critical] High CO2")

	fs.err = errors.New("blocked")
	assert.Error(t, n.Notify(context.Background(), sample))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, sample), context.Canceled)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLog(zap.NewNop()).Notify(context.Background(), sample))
	assert.Equal(t, "[critical] High CO2\nCO2 is 1200 ppm\n2024-05-01 14:00 UTC", Format(sample))
}
