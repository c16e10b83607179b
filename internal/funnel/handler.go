package funnel

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/molfartaro/molfa-bot/internal/config"
	"github.com/molfartaro/molfa-bot/internal/domain"
	"github.com/molfartaro/molfa-bot/internal/mirror"
	"github.com/molfartaro/molfa-bot/internal/store"
)

// StartEvent is an entry command from a user. Text may carry a quiz-result
// deep link payload ("result_<score>").
type StartEvent struct {
	UserID    int64
	ChatID    int64
	FirstName string
	Text      string
}

// ContactEvent is a structured contact share from the chat channel.
type ContactEvent struct {
	UserID    int64
	ChatID    int64
	FirstName string
	Username  string
	Phone     string
}

// CallbackEvent is an inline button activation.
type CallbackEvent struct {
	UserID     int64
	ChatID     int64
	CallbackID string
	Data       string
}

// Handler drives the funnel state machine for inbound chat events.
type Handler struct {
	repo      store.Repository
	mirror    mirror.Mirror
	transport Transport
	sessions  *Sessions
	sequencer *Sequencer
	broadcast *Broadcaster
	adminID   int64
	quizURL   string
}

// NewHandler wires the funnel core to its collaborators.
func NewHandler(repo store.Repository, m mirror.Mirror, t Transport, cfg *config.Config) *Handler {
	return &Handler{
		repo:      repo,
		mirror:    m,
		transport: t,
		sessions:  NewSessions(),
		sequencer: NewSequencer(repo, m, t, cfg.Delays),
		broadcast: NewBroadcaster(repo, t, cfg.Delays.Broadcast),
		adminID:   cfg.AdminID,
		quizURL:   cfg.QuizURL,
	}
}

// HandleStart processes an entry command. A quiz-result payload routes to
// result handling regardless of prior state; otherwise the funnel restarts:
// users without a stored phone are asked for their contact, the rest get the
// main menu.
func (h *Handler) HandleStart(ctx context.Context, ev StartEvent) {
	h.sessions.Clear(ev.UserID)

	if strings.Contains(ev.Text, resultPayloadTag) {
		h.handleQuizResult(ctx, ev)
		return
	}

	user, err := h.repo.GetUser(ctx, ev.UserID)
	if err != nil {
		slog.Error("failed to load user", "user_id", ev.UserID, "error", err)
		return
	}

	if user.HasPhone() {
		h.sendMainMenu(ctx, ev.ChatID)
		return
	}

	h.sessions.SetAwaitingContact(ev.UserID)
	h.send(ctx, ev.ChatID, Message{
		Text:          textContactRequest,
		Markdown:      true,
		ContactButton: buttonShareContact,
	})
}

// HandleContact persists a shared contact and advances the user to the main
// menu. Contacts arriving while the bot is not waiting for one are ignored.
func (h *Handler) HandleContact(ctx context.Context, ev ContactEvent) {
	if !h.sessions.AwaitingContact(ev.UserID) {
		slog.Debug("contact received outside contact request, ignoring", "user_id", ev.UserID)
		return
	}
	if ev.Phone == "" {
		slog.Warn("contact share without phone number, ignoring", "user_id", ev.UserID)
		return
	}

	now := time.Now()
	user := &domain.User{
		ID:        ev.UserID,
		FirstName: ev.FirstName,
		Username:  ev.Username,
		Phone:     ev.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.UpsertUser(ctx, user); err != nil {
		// Leave the session waiting so the user can retry the share.
		slog.Error("failed to save contact", "user_id", ev.UserID, "error", err)
		h.send(ctx, ev.ChatID, Message{Text: textProcessingError})
		return
	}
	slog.Info("contact saved", "user_id", ev.UserID, "first_name", ev.FirstName)

	if err := h.mirror.AppendProfile(ctx, ev.UserID, ev.FirstName, ev.Username, ev.Phone, now); err != nil {
		slog.Warn("mirror profile write failed", "user_id", ev.UserID, "error", err)
	}

	h.sessions.Clear(ev.UserID)
	h.send(ctx, ev.ChatID, Message{
		Text:           fmt.Sprintf(textContactSaved, displayName(ev.FirstName)),
		RemoveKeyboard: true,
	})
	h.sendMainMenu(ctx, ev.ChatID)
}

// HandleCallback reacts to inline button presses. Only the academy-interest
// button is known; anything else is ignored.
func (h *Handler) HandleCallback(ctx context.Context, ev CallbackEvent) {
	if ev.Data != CallbackAcademyInfo {
		return
	}

	if err := h.transport.AnswerCallback(ctx, ev.CallbackID); err != nil {
		slog.Warn("failed to answer callback", "user_id", ev.UserID, "error", err)
	}

	h.send(ctx, ev.ChatID, Message{Text: textInterestConfirmed})

	if err := h.mirror.MarkInterest(ctx, ev.UserID); err != nil {
		slog.Warn("mirror interest write failed", "user_id", ev.UserID, "error", err)
	}
}

// HandleBroadcastCommand runs an admin broadcast. Commands from anyone but
// the configured admin are ignored silently.
func (h *Handler) HandleBroadcastCommand(ctx context.Context, userID, chatID int64, text string) {
	if userID != h.adminID {
		return
	}

	body := strings.TrimSpace(strings.TrimPrefix(text, BroadcastPrefix))
	if body == "" {
		h.send(ctx, chatID, Message{Text: textBroadcastUsage})
		return
	}

	h.broadcast.Run(ctx, chatID, body)
}

func (h *Handler) handleQuizResult(ctx context.Context, ev StartEvent) {
	score, err := parseResultPayload(ev.Text)
	if err != nil {
		slog.Warn("malformed quiz result payload", "user_id", ev.UserID, "text", ev.Text, "error", err)
		h.send(ctx, ev.ChatID, Message{Text: textProcessingError})
		return
	}

	slog.Info("quiz result received", "user_id", ev.UserID, "score", score)

	// Fire and forget: a later restart must not cancel a running sequence.
	go h.sequencer.Run(ctx, SequenceRequest{
		UserID:    ev.UserID,
		ChatID:    ev.ChatID,
		FirstName: ev.FirstName,
		Score:     score,
	})
}

func (h *Handler) sendMainMenu(ctx context.Context, chatID int64) {
	h.send(ctx, chatID, Message{
		Text:    textMainMenu,
		Buttons: []Button{{Label: buttonTakeQuiz, URL: h.quizURL}},
	})
}

func (h *Handler) send(ctx context.Context, chatID int64, msg Message) {
	if err := h.transport.Send(ctx, chatID, msg); err != nil {
		slog.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

// parseResultPayload extracts the integer score following the result tag.
func parseResultPayload(text string) (int, error) {
	_, suffix, ok := strings.Cut(text, resultPayloadTag)
	if !ok {
		return 0, fmt.Errorf("no %q payload in %q", resultPayloadTag, text)
	}
	score, err := strconv.Atoi(strings.TrimSpace(suffix))
	if err != nil {
		return 0, fmt.Errorf("parse score payload: %w", err)
	}
	return score, nil
}
