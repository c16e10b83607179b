package funnel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/molfartaro/molfa-bot/internal/store"
)

// Broadcaster fans one message out to every stored user. Sends are
// sequential with a fixed courtesy delay in between; a failed recipient is
// counted and skipped, never retried. The loop runs to completion even
// during shutdown so the aggregate report always reaches the admin.
type Broadcaster struct {
	repo      store.Repository
	transport Transport
	delay     time.Duration
}

// NewBroadcaster creates a broadcaster with the given inter-send delay.
func NewBroadcaster(repo store.Repository, t Transport, delay time.Duration) *Broadcaster {
	return &Broadcaster{
		repo:      repo,
		transport: t,
		delay:     delay,
	}
}

// Run sends text to all stored users and reports aggregate counts to
// reportChatID.
func (b *Broadcaster) Run(ctx context.Context, reportChatID int64, text string) {
	ids, err := b.repo.ListUserIDs(ctx)
	if err != nil {
		slog.Error("failed to list broadcast recipients", "error", err)
		ids = nil
	}
	if len(ids) == 0 {
		b.send(ctx, reportChatID, Message{Text: textBroadcastEmpty})
		return
	}

	b.send(ctx, reportChatID, Message{Text: fmt.Sprintf(textBroadcastStart, len(ids))})

	var sent, failed int
	for _, id := range ids {
		if err := b.transport.Send(ctx, id, Message{Text: text}); err != nil {
			failed++
			slog.Warn("broadcast send failed", "user_id", id, "error", err)
		} else {
			sent++
		}
		// Spread sends out so the transport does not rate-limit us.
		time.Sleep(b.delay)
	}

	slog.Info("broadcast finished", "recipients", len(ids), "sent", sent, "errors", failed)
	b.send(ctx, reportChatID, Message{Text: fmt.Sprintf(textBroadcastDone, sent, failed)})
}

func (b *Broadcaster) send(ctx context.Context, chatID int64, msg Message) {
	if err := b.transport.Send(ctx, chatID, msg); err != nil {
		slog.Warn("broadcast report send failed", "chat_id", chatID, "error", err)
	}
}
