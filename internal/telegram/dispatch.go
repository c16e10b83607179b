package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/molfartaro/molfa-bot/internal/funnel"
)

// Router routes inbound chat events into the funnel.
type Router interface {
	HandleStart(ctx context.Context, ev funnel.StartEvent)
	HandleContact(ctx context.Context, ev funnel.ContactEvent)
	HandleCallback(ctx context.Context, ev funnel.CallbackEvent)
	HandleBroadcastCommand(ctx context.Context, userID, chatID int64, text string)
}

const pollTimeoutSeconds = 30

// Poll consumes updates via long polling until ctx is canceled. Each update
// is handled on its own goroutine so one user's sequence never blocks
// another user's events.
func (b *Bot) Poll(ctx context.Context, router Router) {
	// Clear any webhook left over from a previous deployment; the API
	// refuses getUpdates while one is registered.
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		slog.Warn("failed to delete stale webhook", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	slog.Info("long polling started", "bot", b.Username())

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.Info("update polling stopped", "reason", ctx.Err())
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.dispatch(ctx, router, update)
		}
	}
}

// WebhookHandler returns an HTTP handler processing Telegram webhook
// updates. Updates are dispatched on the bot's root context, not the
// request context, so in-flight sequences outlive the webhook request.
func (b *Bot) WebhookHandler(ctx context.Context, router Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		update, err := b.api.HandleUpdate(r)
		if err != nil {
			slog.Warn("invalid webhook update", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		go b.dispatch(ctx, router, *update)
		w.WriteHeader(http.StatusOK)
	}
}

// SetWebhook registers url as the update delivery endpoint.
func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("register webhook: %w", err)
	}
	return nil
}

func (b *Bot) dispatch(ctx context.Context, router Router, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while handling update", "panic", r, "update_id", update.UpdateID)
		}
	}()

	if cq := update.CallbackQuery; cq != nil {
		chatID := cq.From.ID
		if cq.Message != nil && cq.Message.Chat != nil {
			chatID = cq.Message.Chat.ID
		}
		router.HandleCallback(ctx, funnel.CallbackEvent{
			UserID:     cq.From.ID,
			ChatID:     chatID,
			CallbackID: cq.ID,
			Data:       cq.Data,
		})
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	switch {
	case msg.Contact != nil:
		router.HandleContact(ctx, funnel.ContactEvent{
			UserID:    msg.From.ID,
			ChatID:    msg.Chat.ID,
			FirstName: msg.Contact.FirstName,
			Username:  msg.From.UserName,
			Phone:     msg.Contact.PhoneNumber,
		})
	case msg.IsCommand() && msg.Command() == "start":
		router.HandleStart(ctx, funnel.StartEvent{
			UserID:    msg.From.ID,
			ChatID:    msg.Chat.ID,
			FirstName: msg.From.FirstName,
			Text:      msg.Text,
		})
	case strings.HasPrefix(msg.Text, funnel.BroadcastPrefix):
		router.HandleBroadcastCommand(ctx, msg.From.ID, msg.Chat.ID, msg.Text)
	}
}
