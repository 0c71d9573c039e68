package lesson

import (
	"context"

	"github.com/linguaday/backend/internal/roadmap"
	"go.elastic.co/apm"
)

// LessonUseCaseImpl ...
type LessonUseCaseImpl struct {
	LessonRepository       LessonRepository
	ProgressRepository     roadmap.ProgressRepository
	AvailabilityRepository roadmap.AvailabilityRepository
}

var _ LessonUseCase = &LessonUseCaseImpl{}

// NewLessonUseCase ...
func NewLessonUseCase(
	LessonRepository LessonRepository,
	ProgressRepository roadmap.ProgressRepository,
	AvailabilityRepository roadmap.AvailabilityRepository,
) *LessonUseCaseImpl {
	return &LessonUseCaseImpl{LessonRepository, ProgressRepository, AvailabilityRepository}
}

// GetLesson fetch a day's content, enforcing the gated progression: days past
// the user's current day, and days without published content, are not served.
func (lu *LessonUseCaseImpl) GetLesson(ctx context.Context, userID string, day int) (*LessonModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "LessonUseCaseImpl.GetLesson", "service")
	defer apmSpan.End()

	progress, err := lu.ProgressRepository.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	available, err := lu.AvailabilityRepository.GetAvailableDays(ctx)
	if err != nil {
		return nil, err
	}
	if !roadmap.Navigable(day, roadmap.ClampDay(progress.CurrentDay), available) {
		return nil, ErrDayLocked
	}
	return lu.LessonRepository.GetLesson(ctx, day)
}
