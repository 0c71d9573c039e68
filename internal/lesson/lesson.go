package lesson

import (
	"context"
	"errors"
	"fmt"

	"github.com/linguaday/backend/internal/roadmap"
)

// Flashcard one vocabulary entry of a lesson
type Flashcard struct {
	ID          string          `json:"id"`
	Word        string          `json:"word"`
	Translation string          `json:"translation"`
	Example     string          `json:"example,omitempty"`
	SourceDay   int             `json:"source_day"`
	Level       roadmap.LevelID `json:"level"`
}

// LessonModel one course day worth of content. An empty Flashcards slice is
// a valid lesson, not an error.
type LessonModel struct {
	Day        int             `json:"day"`
	Title      string          `json:"title"`
	Level      roadmap.LevelID `json:"level"`
	Flashcards []*Flashcard    `json:"flashcards"`
}

// ErrDayLocked the requested day is beyond the user's progress or has no
// published content
var ErrDayLocked = errors.New("Lesson is not unlocked yet")

type LessonRepository interface {
	GetLesson(ctx context.Context, day int) (*LessonModel, error)
}

type LessonUseCase interface {
	GetLesson(ctx context.Context, userID string, day int) (*LessonModel, error)
}

// NormalizeFlashcards assign synthetic ids and backfill source metadata.
//
// Ids are derived from the original lesson payload order, before any
// shuffling, so that re-deriving them across reloads is deterministic and
// never collides within one lesson.
func NormalizeFlashcards(cards []*Flashcard, day int, level roadmap.LevelID) []*Flashcard {
	for i, card := range cards {
		if card.ID == "" {
			card.ID = fmt.Sprintf("card_%d", i+1)
		}
		if card.SourceDay == 0 {
			card.SourceDay = day
		}
		if card.Level == "" {
			card.Level = level
		}
	}
	return cards
}
