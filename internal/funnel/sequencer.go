package funnel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/molfartaro/molfa-bot/internal/config"
	"github.com/molfartaro/molfa-bot/internal/domain"
	"github.com/molfartaro/molfa-bot/internal/mirror"
	"github.com/molfartaro/molfa-bot/internal/store"
)

// SequenceRequest parameterizes one post-quiz message sequence.
type SequenceRequest struct {
	UserID    int64
	ChatID    int64
	FirstName string
	Score     int
}

// Sequencer executes the timed follow-up messages after a quiz completion.
// Stages run strictly in order within one invocation; a failed send is
// logged and skipped, never fatal to the remaining stages. Sequences for
// different users (or duplicate submissions from the same user) run
// independently.
type Sequencer struct {
	repo      store.Repository
	mirror    mirror.Mirror
	transport Transport
	delays    config.DelayConfig
}

// NewSequencer creates a sequencer with the given stage delays.
func NewSequencer(repo store.Repository, m mirror.Mirror, t Transport, delays config.DelayConfig) *Sequencer {
	return &Sequencer{
		repo:      repo,
		mirror:    m,
		transport: t,
		delays:    delays,
	}
}

// Run executes the full sequence for one quiz result. It blocks for the
// duration of the sequence and is meant to be started on its own goroutine.
func (s *Sequencer) Run(ctx context.Context, req SequenceRequest) {
	// Record the score first so a crash mid-sequence still leaves it stored.
	if err := s.repo.UpdateQuizScore(ctx, req.UserID, req.Score); err != nil {
		slog.Error("failed to persist quiz score", "user_id", req.UserID, "score", req.Score, "error", err)
	}
	if err := s.mirror.RecordScore(ctx, req.UserID, req.Score, time.Now()); err != nil {
		slog.Warn("mirror score write failed", "user_id", req.UserID, "error", err)
	}

	s.send(ctx, req.ChatID, Message{Text: textCelebration})

	if !s.wait(ctx, s.delays.ResultImage) {
		return
	}
	s.sendTierImage(ctx, req)

	if !s.wait(ctx, s.delays.AcademyFirst) {
		return
	}
	s.send(ctx, req.ChatID, Message{Text: textAcademyFirst})

	if !s.wait(ctx, s.delays.AcademySecond) {
		return
	}
	s.sendAcademyPhoto(ctx, req.ChatID)

	s.send(ctx, req.ChatID, Message{
		Text:    fmt.Sprintf(textAcademySecond, displayName(req.FirstName)),
		Buttons: []Button{{Label: buttonAcademyInfo, CallbackData: CallbackAcademyInfo}},
	})

	slog.Info("quiz result sequence completed", "user_id", req.UserID, "score", req.Score)
}

// sendTierImage sends the tier-matched result image, falling back to a text
// summary when the photo cannot be delivered.
func (s *Sequencer) sendTierImage(ctx context.Context, req SequenceRequest) {
	tier := domain.ClassifyScore(req.Score)
	err := s.transport.Send(ctx, req.ChatID, Message{PhotoURL: tier.ImageURL})
	if err == nil {
		return
	}
	slog.Warn("tier image send failed, falling back to text",
		"chat_id", req.ChatID, "tier", tier.Label, "error", err)
	s.send(ctx, req.ChatID, Message{
		Text: fmt.Sprintf(textResultFallback, tier.Label, req.Score, domain.MaxScore),
	})
}

// sendAcademyPhoto tries each candidate photo source in order and stops at
// the first success. Total failure is tolerated.
func (s *Sequencer) sendAcademyPhoto(ctx context.Context, chatID int64) {
	for _, url := range academyPhotoURLs {
		err := s.transport.Send(ctx, chatID, Message{PhotoURL: url})
		if err == nil {
			return
		}
		slog.Warn("academy photo source failed", "chat_id", chatID, "url", url, "error", err)
	}
	slog.Warn("all academy photo sources failed, continuing without photo", "chat_id", chatID)
}

// wait suspends the sequence for d without holding any locks. Returns false
// when the process is shutting down.
func (s *Sequencer) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		slog.Info("sequence interrupted by shutdown", "reason", ctx.Err())
		return false
	}
}

func (s *Sequencer) send(ctx context.Context, chatID int64, msg Message) {
	if err := s.transport.Send(ctx, chatID, msg); err != nil {
		slog.Warn("sequence send failed", "chat_id", chatID, "error", err)
	}
}
