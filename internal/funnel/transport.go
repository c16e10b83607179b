// Package funnel implements the conversational funnel: contact collection,
// quiz-result handling with the delayed follow-up sequence, and the admin
// broadcast.
package funnel

import (
	"context"
)

// Message is a single outbound chat message.
type Message struct {
	Text     string
	Markdown bool
	// PhotoURL, when set, sends a photo (with Text as caption) instead of
	// a plain text message.
	PhotoURL string
	// ContactButton, when non-empty, attaches a one-time reply keyboard
	// with a single contact-share button carrying this label.
	ContactButton string
	// RemoveKeyboard clears any reply keyboard on the recipient's side.
	RemoveKeyboard bool
	// Buttons is a single inline keyboard row.
	Buttons []Button
}

// Button is one inline keyboard button. Exactly one of URL or CallbackData
// should be set.
type Button struct {
	Label        string
	URL          string
	CallbackData string
}

// Transport delivers outbound messages to the chat channel. A returned
// error covers that send only; callers decide whether to fall back or skip.
type Transport interface {
	Send(ctx context.Context, chatID int64, msg Message) error
	AnswerCallback(ctx context.Context, callbackID string) error
}
