package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"project_lojabot/internal/entities"
)

type sentMessage struct {
	chatID  int64
	content string
}

type fakeClient struct {
	mu      sync.Mutex
	sent    []sentMessage
	updates chan tgbotapi.Update
	stopped bool
}

func (f *fakeClient) Send(_ context.Context, chatID int64, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID, content})
	return nil
}

func (f *fakeClient) Updates(int) tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeClient) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeClient) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

type fakeChat struct {
	reply   string
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeChat) Reply(_ context.Context, message string) (entities.Response, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return entities.Response{}, f.err
	}
	return entities.Response{Content: f.reply + message}, nil
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID}}}
}

func commandUpdate(chatID int64, command string) tgbotapi.Update {
	u := textUpdate(chatID, "/"+command)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command) + 1}}
	return u
}

func TestHandleUpdate_RepliesWithPipelineResponse(t *testing.T) {
	client := &fakeClient{}
	b := NewBridge(client, &fakeChat{reply: "eco: "}, "Bia", zaptest.NewLogger(t))

	b.HandleUpdate(context.Background(), textUpdate(7, "tem caneca?"))
	assert.Equal(t, []sentMessage{{7, "eco: tem caneca?"}}, client.messages())
}

func TestHandleUpdate_Start(t *testing.T) {
	client := &fakeClient{}
	b := NewBridge(client, &fakeChat{err: errors.New("must not be called")}, "Bia", nil)

	b.HandleUpdate(context.Background(), commandUpdate(7, "start"))
	msgs := client.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].content, "Bia")
}

func TestHandleUpdate_IgnoresNonText(t *testing.T) {
	client := &fakeClient{}
	b := NewBridge(client, &fakeChat{}, "Bia", nil)

	b.HandleUpdate(context.Background(), tgbotapi.Update{})
	b.HandleUpdate(context.Background(), textUpdate(7, "   "))
	assert.Empty(t, client.messages())
}

func TestHandleUpdate_FailureSendsGenericMessage(t *testing.T) {
	client := &fakeClient{}
	b := NewBridge(client, &fakeChat{err: errors.New("provider down")}, "Bia", nil)

	b.HandleUpdate(context.Background(), textUpdate(7, "oi"))
	assert.Equal(t, []sentMessage{{7, "Erro ao processar a mensagem com IA."}}, client.messages())
}

func TestHandleUpdate_BusyChat(t *testing.T) {
	client := &fakeClient{}
	chat := &fakeChat{reply: "ok: ", gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	b := NewBridge(client, chat, "Bia", nil)

	done := make(chan struct{})
	go func() {
		b.HandleUpdate(context.Background(), textUpdate(7, "primeira"))
		close(done)
	}()
	<-chat.entered

	b.HandleUpdate(context.Background(), textUpdate(7, "segunda"))
	close(chat.gate)
	<-done

	assert.Equal(t, []sentMessage{
		{7, "Aguarde, ainda estou respondendo sua mensagem anterior."},
		{7, "ok: primeira"},
	}, client.messages())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	client := &fakeClient{updates: make(chan tgbotapi.Update)}
	b := NewBridge(client, &fakeChat{reply: "r: "}, "Bia", nil)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- b.Run(ctx) }()

	client.updates <- textUpdate(1, "oi")
	require.Eventually(t, func() bool { return len(client.messages()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	client.mu.Lock()
	assert.True(t, client.stopped)
	client.mu.Unlock()
}

func TestRun_ReturnsWhenUpdatesClose(t *testing.T) {
	client := &fakeClient{updates: make(chan tgbotapi.Update)}
	b := NewBridge(client, &fakeChat{}, "Bia", nil)
	close(client.updates)

	assert.NoError(t, b.Run(context.Background()))
}
