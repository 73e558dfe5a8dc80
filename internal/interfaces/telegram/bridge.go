package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"project_lojabot/internal/entities"
	"project_lojabot/internal/infrastructure"
	"project_lojabot/internal/metrics"
)

const (
	pollTimeout = 60

	busyReply   = "Aguarde, ainda estou respondendo sua mensagem anterior."
	failedReply = "Erro ao processar a mensagem com IA."
)

// ChatReplier resolves one inbound message.
type ChatReplier interface {
	Reply(ctx context.Context, message string) (entities.Response, error)
}

// Client is the Telegram transport used by the bridge.
type Client interface {
	Send(ctx context.Context, chatID int64, content string) error
	Updates(timeout int) tgbotapi.UpdatesChannel
	Stop()
}

// Bridge feeds Telegram text messages into the chat pipeline and sends the replies back.
type Bridge struct {
	client        Client
	chat          ChatReplier
	guard         *infrastructure.ChatGuard
	assistantName string
	logger        *zap.Logger
}

func NewBridge(client Client, chat ChatReplier, assistantName string, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		client:        client,
		chat:          chat,
		guard:         infrastructure.NewChatGuard(),
		assistantName: assistantName,
		logger:        logger,
	}
}

// Run long-polls until ctx is done or the update channel closes, then waits
// for in-flight turns to finish.
func (b *Bridge) Run(ctx context.Context) error {
	updates := b.client.Updates(pollTimeout)
	b.logger.Info("telegram bridge started")

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.client.Stop()
			b.logger.Info("telegram bridge stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate answers a single update. Non-text updates are ignored.
func (b *Bridge) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}
	chatID := msg.Chat.ID
	log := b.logger.With(zap.Int64("chat_id", chatID))

	if msg.IsCommand() && msg.Command() == "start" {
		b.send(ctx, log, chatID, fmt.Sprintf("Olá! Eu sou %s. Pergunte sobre nossos produtos e serviços.", b.assistantName))
		metrics.TelegramMessages.WithLabelValues("start").Inc()
		return
	}

	if !b.guard.TryStart(chatID) {
		b.send(ctx, log, chatID, busyReply)
		metrics.TelegramMessages.WithLabelValues("busy").Inc()
		return
	}
	defer b.guard.Finish(chatID)

	resp, err := b.chat.Reply(ctx, msg.Text)
	if err != nil {
		log.Error("telegram turn failed", zap.Error(err))
		b.send(ctx, log, chatID, failedReply)
		metrics.TelegramMessages.WithLabelValues("failed").Inc()
		return
	}
	b.send(ctx, log, chatID, resp.Content)
	metrics.TelegramMessages.WithLabelValues("answered").Inc()
}

func (b *Bridge) send(ctx context.Context, log *zap.Logger, chatID int64, content string) {
	if err := b.client.Send(ctx, chatID, content); err != nil {
		log.Warn("telegram reply not delivered", zap.Error(err))
	}
}
