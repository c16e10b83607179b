package funnel

import (
	"context"
	"sync"
	"time"

	"github.com/molfartaro/molfa-bot/internal/config"
	"github.com/molfartaro/molfa-bot/internal/domain"
)

// eventLog records cross-fake call ordering for sequencing assertions.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeRepo struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	upsertErr error
	listErr   error
	log       *eventLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeRepo) GetUser(_ context.Context, userID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeRepo) UpsertUser(_ context.Context, user *domain.User) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	if existing, ok := r.users[user.ID]; ok && existing.QuizScore != nil {
		copied.QuizScore = existing.QuizScore
	}
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeRepo) UpdateQuizScore(_ context.Context, userID int64, score int) error {
	r.log.add("store-score")
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.QuizScore = &score
	}
	return nil
}

func (r *fakeRepo) ListUserIDs(_ context.Context) ([]int64, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeRepo) Ping(context.Context) error { return nil }

func (r *fakeRepo) Close() error { return nil }

func (r *fakeRepo) score(userID int64) *int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		return user.QuizScore
	}
	return nil
}

type sentMessage struct {
	chatID int64
	msg    Message
}

type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	answered []string
	// failFn, when set, decides per message whether the send fails. The
	// attempt is recorded either way.
	failFn func(chatID int64, msg Message) error
	log    *eventLog
}

func (t *fakeTransport) Send(_ context.Context, chatID int64, msg Message) error {
	t.mu.Lock()
	t.sent = append(t.sent, sentMessage{chatID: chatID, msg: msg})
	failFn := t.failFn
	t.mu.Unlock()

	if failFn != nil {
		if err := failFn(chatID, msg); err != nil {
			return err
		}
	}
	if msg.PhotoURL != "" {
		t.log.add("send-photo")
	} else {
		t.log.add("send-text")
	}
	return nil
}

func (t *fakeTransport) AnswerCallback(_ context.Context, callbackID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.answered = append(t.answered, callbackID)
	return nil
}

func (t *fakeTransport) messages() []sentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]sentMessage(nil), t.sent...)
}

func (t *fakeTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent)
}

func (t *fakeTransport) last() sentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sent[len(t.sent)-1]
}

type fakeMirror struct {
	mu        sync.Mutex
	profiles  []int64
	scores    map[int64]int
	interests []int64
	err       error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{scores: make(map[int64]int)}
}

func (m *fakeMirror) EnsureHeaders(context.Context) error { return m.err }

func (m *fakeMirror) AppendProfile(_ context.Context, userID int64, _, _, _ string, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, userID)
	return nil
}

func (m *fakeMirror) RecordScore(_ context.Context, userID int64, score int, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[userID] = score
	return nil
}

func (m *fakeMirror) MarkInterest(_ context.Context, userID int64) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interests = append(m.interests, userID)
	return nil
}

const testAdminID int64 = 99

func testConfig() *config.Config {
	return &config.Config{
		AdminID: testAdminID,
		QuizURL: "https://quiz.example/",
		// Zero delays keep the sequence instantaneous under test.
		Delays: config.DelayConfig{},
	}
}

func newTestHandler(repo *fakeRepo, m *fakeMirror, t *fakeTransport) *Handler {
	return NewHandler(repo, m, t, testConfig())
}
