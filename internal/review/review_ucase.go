package review

import (
	"context"

	"github.com/linguaday/backend/internal/lesson"
	"go.elastic.co/apm"
)

// ReviewUseCaseImpl ...
type ReviewUseCaseImpl struct {
	LessonRepository lesson.LessonRepository
	Store            SessionStore
	Engine           *Engine
}

var _ ReviewUseCase = &ReviewUseCaseImpl{}

// NewReviewUseCase ...
func NewReviewUseCase(
	LessonRepository lesson.LessonRepository,
	Store SessionStore,
	Engine *Engine,
) *ReviewUseCaseImpl {
	return &ReviewUseCaseImpl{LessonRepository, Store, Engine}
}

// GetSession load the session for the target day, resuming a saved one when
// its queue is non-empty, otherwise initializing fresh. The target day falls
// back to the previous day only when the target has zero cards; no_cards is
// committed only after both are known empty.
func (ru *ReviewUseCaseImpl) GetSession(ctx context.Context, userID string, day int) (*SessionState, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ReviewUseCaseImpl.GetSession", "service")
	defer apmSpan.End()

	return ru.resolve(ctx, userID, day)
}

// Flip toggle the reveal flag of the current card and persist
func (ru *ReviewUseCaseImpl) Flip(ctx context.Context, userID string, day int) (*SessionState, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ReviewUseCaseImpl.Flip", "service")
	defer apmSpan.End()

	state, err := ru.resolve(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if ru.Engine.Flip(state) {
		if err := ru.Store.Save(userID, state.Day, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// Answer apply an answer outcome. Precondition violations (no current card,
// answer not revealed) are silent no-ops: the unchanged session is returned.
func (ru *ReviewUseCaseImpl) Answer(ctx context.Context, userID string, day int, correct bool) (*SessionState, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ReviewUseCaseImpl.Answer", "service")
	defer apmSpan.End()

	state, err := ru.resolve(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if ru.Engine.Answer(state, correct) {
		// persisted after every answer; this is the resilience contract
		if err := ru.Store.Save(userID, state.Day, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// Reset reshuffle the original card set with zeroed counters and replace any
// persisted session
func (ru *ReviewUseCaseImpl) Reset(ctx context.Context, userID string, day int) (*SessionState, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ReviewUseCaseImpl.Reset", "service")
	defer apmSpan.End()

	state, err := ru.resolve(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if state.Status == StatusNoCards {
		return state, nil
	}

	fresh := ru.Engine.Reset(state)
	if err := ru.Store.Clear(userID, state.Day); err != nil {
		return nil, err
	}
	if err := ru.Store.Save(userID, fresh.Day, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// resolve determine the effective day, then either resume the saved session
// or initialize a fresh one. The resume branch has a single precondition:
// a saved session whose queue is non-empty.
func (ru *ReviewUseCaseImpl) resolve(ctx context.Context, userID string, day int) (*SessionState, error) {
	cards, effectiveDay, err := ru.loadCards(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return &SessionState{
			Day:      day,
			Status:   StatusNoCards,
			Progress: map[string]*CardProgress{},
			Queue:    []*lesson.Flashcard{},
			Original: []*lesson.Flashcard{},
		}, nil
	}

	if saved, ok := ru.Store.Load(userID, effectiveDay); ok && len(saved.Queue) > 0 {
		return saved, nil
	}

	fresh := ru.Engine.NewSession(effectiveDay, cards)
	if err := ru.Store.Save(userID, effectiveDay, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// loadCards fetch the target day's flashcards, falling back to the previous
// day only when the target day has none
func (ru *ReviewUseCaseImpl) loadCards(ctx context.Context, day int) ([]*lesson.Flashcard, int, error) {
	target, err := ru.LessonRepository.GetLesson(ctx, day)
	if err != nil {
		return nil, 0, err
	}
	if len(target.Flashcards) > 0 {
		return target.Flashcards, day, nil
	}
	if day <= 1 {
		return nil, day, nil
	}

	fallback, err := ru.LessonRepository.GetLesson(ctx, day-1)
	if err != nil {
		return nil, 0, err
	}
	if len(fallback.Flashcards) > 0 {
		return fallback.Flashcards, day - 1, nil
	}
	return nil, day, nil
}
