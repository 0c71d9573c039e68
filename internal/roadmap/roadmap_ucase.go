package roadmap

import (
	"context"
	"errors"

	"go.elastic.co/apm"
)

// ErrDayNotCompletable completing a day other than the current one
var ErrDayNotCompletable = errors.New("Only the current day can be completed")

// RoadmapUseCaseImpl ...
type RoadmapUseCaseImpl struct {
	ProgressRepository     ProgressRepository
	AvailabilityRepository AvailabilityRepository
}

var _ RoadmapUseCase = &RoadmapUseCaseImpl{}

// NewRoadmapUseCase ...
func NewRoadmapUseCase(
	ProgressRepository ProgressRepository,
	AvailabilityRepository AvailabilityRepository,
) *RoadmapUseCaseImpl {
	return &RoadmapUseCaseImpl{ProgressRepository, AvailabilityRepository}
}

// GetRoadmap compute per-day render state and level aggregates for the user
func (ru *RoadmapUseCaseImpl) GetRoadmap(ctx context.Context, userID string) (*Roadmap, error) {
	apmSpan, _ := apm.StartSpan(ctx, "RoadmapUseCaseImpl.GetRoadmap", "service")
	defer apmSpan.End()

	progress, err := ru.ProgressRepository.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	available, err := ru.AvailabilityRepository.GetAvailableDays(ctx)
	if err != nil {
		return nil, err
	}
	return Compute(progress.CurrentDay, available), nil
}

// CompleteDay advance the user's progress after finishing the current day.
// The day must be navigable: completing a locked or unpublished day is
// rejected.
func (ru *RoadmapUseCaseImpl) CompleteDay(ctx context.Context, userID string, day int) (*UserProgress, error) {
	apmSpan, _ := apm.StartSpan(ctx, "RoadmapUseCaseImpl.CompleteDay", "service")
	defer apmSpan.End()

	progress, err := ru.ProgressRepository.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	available, err := ru.AvailabilityRepository.GetAvailableDays(ctx)
	if err != nil {
		return nil, err
	}
	if day != ClampDay(progress.CurrentDay) || !Navigable(day, progress.CurrentDay, available) {
		return nil, ErrDayNotCompletable
	}
	return ru.ProgressRepository.AdvanceDay(ctx, userID, day)
}
