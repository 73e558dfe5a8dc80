package infrastructure

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BotAPI is the part of *tgbotapi.BotAPI the client needs.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// NewTelegramBot authenticates against the Bot API with token.
func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, eris.Wrap(err, "telegram: create bot")
	}
	return bot, nil
}

// TelegramClient sends plain-text replies through a shared outbound limiter,
// keeping the bot under the Bot API's global send quota.
type TelegramClient struct {
	bot     BotAPI
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewTelegramClient(bot BotAPI, sendsPerSecond float64, burst int, logger *zap.Logger) *TelegramClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sendsPerSecond <= 0 {
		sendsPerSecond = 25
	}
	if burst <= 0 {
		burst = 1
	}
	return &TelegramClient{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(sendsPerSecond), burst),
		logger:  logger,
	}
}

// Send waits for the limiter and delivers content to chatID.
func (t *TelegramClient) Send(ctx context.Context, chatID int64, content string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "telegram: wait for send slot")
	}
	// Replies go out without a parse mode: catalog bullets and model text are not valid Markdown.
	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, content)); err != nil {
		t.logger.Error("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return eris.Wrap(err, "telegram: send message")
	}
	return nil
}

// Updates starts long polling with the given timeout in seconds.
func (t *TelegramClient) Updates(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	return t.bot.GetUpdatesChan(u)
}

func (t *TelegramClient) Stop() {
	t.bot.StopReceivingUpdates()
}
