// Package domain contains core domain types for the funnel bot.
package domain

import (
	"time"
)

// User represents a bot user. A row exists only after the user has shared
// their contact at least once.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
	Phone     string `json:"phone"`
	// QuizScore is set once the user completes the quiz; later completions
	// overwrite it.
	QuizScore *int      `json:"quiz_score,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPhone reports whether the user has completed contact sharing.
// Safe to call on a nil user (no stored profile).
func (u *User) HasPhone() bool {
	return u != nil && u.Phone != ""
}

// HasQuizResult reports whether the user has completed the quiz.
func (u *User) HasQuizResult() bool {
	return u != nil && u.QuizScore != nil
}
