package infrastructure

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeBot struct {
	mu      sync.Mutex
	sent    []tgbotapi.MessageConfig
	updates chan tgbotapi.Update
	stopped bool
	err     error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeBot) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func TestTelegramClient_Send(t *testing.T) {
	bot := &fakeBot{}
	c := NewTelegramClient(bot, 25, 5, zaptest.NewLogger(t))

	require.NoError(t, c.Send(context.Background(), 12345, "Available products:\n- Caneca"))
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(12345), bot.sent[0].ChatID)
	assert.Equal(t, "Available products:\n- Caneca", bot.sent[0].Text)
	assert.Empty(t, bot.sent[0].ParseMode)
}

func TestTelegramClient_SendError(t *testing.T) {
	bot := &fakeBot{err: assert.AnError}
	c := NewTelegramClient(bot, 25, 5, nil)
	assert.True(t, eris.Is(c.Send(context.Background(), 1, "oi"), assert.AnError))
}

func TestTelegramClient_CancelledContextSkipsSend(t *testing.T) {
	bot := &fakeBot{}
	c := NewTelegramClient(bot, 25, 5, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, c.Send(ctx, 1, "oi"))
	assert.Empty(t, bot.sent)
}

func TestTelegramClient_UpdatesAndStop(t *testing.T) {
	bot := &fakeBot{updates: make(chan tgbotapi.Update)}
	c := NewTelegramClient(bot, 0, 0, nil)

	assert.Equal(t, tgbotapi.UpdatesChannel(bot.updates), c.Updates(60))
	c.Stop()
	assert.True(t, bot.stopped)
}

func TestChatGuard(t *testing.T) {
	g := NewChatGuard()

	assert.True(t, g.TryStart(1))
	assert.False(t, g.TryStart(1))
	assert.True(t, g.TryStart(2), "chats are independent")

	g.Finish(1)
	assert.True(t, g.TryStart(1))
}
