// Package telegram adapts the funnel core to the Telegram Bot API: it
// implements the outbound transport and routes inbound updates into the
// funnel handlers.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/molfartaro/molfa-bot/internal/funnel"
)

// Bot wraps the Telegram Bot API client. It implements funnel.Transport.
type Bot struct {
	api *tgbotapi.BotAPI
}

// New authorizes the bot against the Telegram API.
func New(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}
	return &Bot{api: api}, nil
}

// Username returns the authorized bot account name.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Send delivers one outbound message. The Bot API client has no context
// support; ctx is accepted to satisfy funnel.Transport.
func (b *Bot) Send(_ context.Context, chatID int64, msg funnel.Message) error {
	if _, err := b.api.Send(chattable(chatID, msg)); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}

// AnswerCallback acknowledges an inline button press so the client stops
// showing its pending indicator.
func (b *Bot) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func chattable(chatID int64, msg funnel.Message) tgbotapi.Chattable {
	if msg.PhotoURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(msg.PhotoURL))
		photo.Caption = msg.Text
		return photo
	}

	m := tgbotapi.NewMessage(chatID, msg.Text)
	if msg.Markdown {
		m.ParseMode = tgbotapi.ModeMarkdown
	}

	switch {
	case msg.ContactButton != "":
		keyboard := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(msg.ContactButton)),
		)
		keyboard.OneTimeKeyboard = true
		m.ReplyMarkup = keyboard
	case msg.RemoveKeyboard:
		m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	case len(msg.Buttons) > 0:
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(msg.Buttons))
		for _, btn := range msg.Buttons {
			if btn.URL != "" {
				row = append(row, tgbotapi.NewInlineKeyboardButtonURL(btn.Label, btn.URL))
			} else {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.CallbackData))
			}
		}
		m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)
	}

	return m
}
