package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/molfartaro/molfa-bot/internal/funnel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouter struct {
	mu         sync.Mutex
	starts     []funnel.StartEvent
	contacts   []funnel.ContactEvent
	callbacks  []funnel.CallbackEvent
	broadcasts []string
}

func (r *fakeRouter) HandleStart(_ context.Context, ev funnel.StartEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, ev)
}

func (r *fakeRouter) HandleContact(_ context.Context, ev funnel.ContactEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, ev)
}

func (r *fakeRouter) HandleCallback(_ context.Context, ev funnel.CallbackEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, ev)
}

func (r *fakeRouter) HandleBroadcastCommand(_ context.Context, _, _ int64, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcasts = append(r.broadcasts, text)
}

func textUpdate(text string, entities ...tgbotapi.MessageEntity) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: 10, FirstName: "Іван", UserName: "ivan"},
			Chat:      &tgbotapi.Chat{ID: 10},
			Text:      text,
			Entities:  entities,
		},
	}
}

func commandUpdate(text string) tgbotapi.Update {
	// Telegram marks the leading command with a bot_command entity.
	return textUpdate(text, tgbotapi.MessageEntity{
		Type:   "bot_command",
		Offset: 0,
		Length: len("/start"),
	})
}

func TestDispatchStartCommand(t *testing.T) {
	router := &fakeRouter{}
	bot := &Bot{}

	bot.dispatch(context.Background(), router, commandUpdate("/start result_25"))

	require.Len(t, router.starts, 1)
	assert.Equal(t, int64(10), router.starts[0].UserID)
	assert.Equal(t, int64(10), router.starts[0].ChatID)
	assert.Equal(t, "Іван", router.starts[0].FirstName)
	assert.Equal(t, "/start result_25", router.starts[0].Text)
}

func TestDispatchContact(t *testing.T) {
	router := &fakeRouter{}
	bot := &Bot{}

	update := textUpdate("")
	update.Message.Contact = &tgbotapi.Contact{
		PhoneNumber: "+380501112233",
		FirstName:   "Іван",
	}

	bot.dispatch(context.Background(), router, update)

	require.Len(t, router.contacts, 1)
	assert.Equal(t, "+380501112233", router.contacts[0].Phone)
	assert.Equal(t, "ivan", router.contacts[0].Username)
	assert.Empty(t, router.starts)
}

func TestDispatchBroadcastCommand(t *testing.T) {
	router := &fakeRouter{}
	bot := &Bot{}

	bot.dispatch(context.Background(), router, textUpdate("/send Привіт всім!"))

	require.Len(t, router.broadcasts, 1)
	assert.Equal(t, "/send Привіт всім!", router.broadcasts[0])
}

func TestDispatchCallbackQuery(t *testing.T) {
	router := &fakeRouter{}
	bot := &Bot{}

	update := tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-7",
			From: &tgbotapi.User{ID: 10},
			Message: &tgbotapi.Message{
				Chat: &tgbotapi.Chat{ID: 20},
			},
			Data: funnel.CallbackAcademyInfo,
		},
	}

	bot.dispatch(context.Background(), router, update)

	require.Len(t, router.callbacks, 1)
	assert.Equal(t, "cb-7", router.callbacks[0].CallbackID)
	assert.Equal(t, int64(10), router.callbacks[0].UserID)
	assert.Equal(t, int64(20), router.callbacks[0].ChatID)
	assert.Equal(t, funnel.CallbackAcademyInfo, router.callbacks[0].Data)
}

func TestDispatchIgnoresPlainText(t *testing.T) {
	router := &fakeRouter{}
	bot := &Bot{}

	bot.dispatch(context.Background(), router, textUpdate("hello there"))

	assert.Empty(t, router.starts)
	assert.Empty(t, router.contacts)
	assert.Empty(t, router.broadcasts)
}

func TestDispatchIgnoresEmptyUpdate(t *testing.T) {
	router := &fakeRouter{}
	bot := &Bot{}

	bot.dispatch(context.Background(), router, tgbotapi.Update{})
	bot.dispatch(context.Background(), router, tgbotapi.Update{Message: &tgbotapi.Message{}})

	assert.Empty(t, router.starts)
	assert.Empty(t, router.contacts)
	assert.Empty(t, router.callbacks)
}

func TestDispatchRecoversFromHandlerPanic(t *testing.T) {
	bot := &Bot{}

	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.dispatch(context.Background(), panickyRouter{}, commandUpdate("/start"))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not recover from panic")
	}
}

type panickyRouter struct{}

func (panickyRouter) HandleStart(context.Context, funnel.StartEvent)     { panic("boom") }
func (panickyRouter) HandleContact(context.Context, funnel.ContactEvent) {}
func (panickyRouter) HandleCallback(context.Context, funnel.CallbackEvent) {
}
func (panickyRouter) HandleBroadcastCommand(context.Context, int64, int64, string) {}
