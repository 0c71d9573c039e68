package review

import (
	"context"

	"github.com/linguaday/backend/internal/lesson"
)

// CardState derived learning state of a card within one session
type CardState string

const (
	CardNew      CardState = "new"
	CardLearning CardState = "learning"
	CardMastered CardState = "mastered"
)

// MasteryThreshold correct answers needed to retire a card for the pass
const MasteryThreshold = 3

// CardProgress per-card counters for one review session. Created zeroed when
// a card first enters the session, mutated on every answer, reset only on an
// explicit restart.
type CardProgress struct {
	CorrectCount   int       `json:"correct_count"`
	IncorrectCount int       `json:"incorrect_count"`
	ReviewCount    int       `json:"review_count"`
	LastSeenAt     int64     `json:"last_seen_at"` // milliseconds
	State          CardState `json:"state"`
}

// DeriveState recompute the card state from its counters
func (p *CardProgress) DeriveState() CardState {
	switch {
	case p.CorrectCount >= MasteryThreshold:
		return CardMastered
	case p.ReviewCount > 0:
		return CardLearning
	default:
		return CardNew
	}
}

// SessionStats session-wide monotonic counters
type SessionStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// SessionStatus lifecycle state of a review session
type SessionStatus string

const (
	// StatusNoCards terminal: neither the target day nor its fallback had cards
	StatusNoCards SessionStatus = "no_cards"
	// StatusActive cards remain in the queue
	StatusActive SessionStatus = "active"
	// StatusCompleted terminal until an explicit reset
	StatusCompleted SessionStatus = "completed"
)

// SessionState the full, resumable state of one review session, persisted
// after every answer so a mid-session interruption loses nothing.
type SessionState struct {
	Day         int                      `json:"day"` // effective day (target or fallback)
	Status      SessionStatus            `json:"status"`
	Stats       SessionStats             `json:"stats"`
	Progress    map[string]*CardProgress `json:"progress"`
	Queue       []*lesson.Flashcard      `json:"queue"`
	Original    []*lesson.Flashcard      `json:"original"` // normalized source order, kept for reset
	Revealed    bool                     `json:"revealed"`
	LastUpdated int64                    `json:"last_updated"` // milliseconds
}

// CurrentCard the head of the queue, nil once the session is terminal
func (s *SessionState) CurrentCard() *lesson.Flashcard {
	if len(s.Queue) == 0 {
		return nil
	}
	return s.Queue[0]
}

// Remaining cards left in the queue for this pass
func (s *SessionState) Remaining() int {
	return len(s.Queue)
}

// SessionStore scoped durable cache for review sessions, keyed by user and
// effective day so sessions never collide across users or days
type SessionStore interface {
	Load(userID string, day int) (*SessionState, bool)
	Save(userID string, day int, state *SessionState) error
	Clear(userID string, day int) error
}

// ReviewUseCase one review session per (user, effective day)
type ReviewUseCase interface {
	GetSession(ctx context.Context, userID string, day int) (*SessionState, error)
	Flip(ctx context.Context, userID string, day int) (*SessionState, error)
	Answer(ctx context.Context, userID string, day int, correct bool) (*SessionState, error)
	Reset(ctx context.Context, userID string, day int) (*SessionState, error)
}
