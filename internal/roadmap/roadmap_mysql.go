package roadmap

import (
	"context"

	"github.com/linguaday/backend/internal/infrastructure/driver"
)

type MySQLProgressRepository struct {
	Conn driver.ITransactionalDB
}

var _ ProgressRepository = &MySQLProgressRepository{}

func NewProgressRepository(Conn driver.ITransactionalDB) *MySQLProgressRepository {
	return &MySQLProgressRepository{
		Conn: Conn,
	}
}

// GetUserProgress read the durable progress row. A user without one is a
// fresh account on day one.
func (repo *MySQLProgressRepository) GetUserProgress(ctx context.Context, userID string) (*UserProgress, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    up.current_day, up.current_level
FROM
    user_progress up
WHERE
    up.user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progress := &UserProgress{CurrentDay: FirstDay, CurrentLevel: LevelA1}
	if rows.Next() {
		if err := rows.Scan(&progress.CurrentDay, &progress.CurrentLevel); err != nil {
			return nil, err
		}
	}
	return progress, nil
}

// AdvanceDay move the user forward by one day iff the completed day is the
// current one. Re-completing an older day leaves the record untouched.
func (repo *MySQLProgressRepository) AdvanceDay(ctx context.Context, userID string, completedDay int) (*UserProgress, error) {
	conn := repo.Conn

	progress, err := repo.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if completedDay != progress.CurrentDay || completedDay >= LastDay {
		return progress, nil
	}

	nextDay := completedDay + 1
	nextLevel, _ := LevelForDay(nextDay)
	_, err = conn.ExecContext(ctx, `
INSERT INTO user_progress (user_id, current_day, current_level)
VALUES ($1, $2, $3)
ON DUPLICATE KEY UPDATE current_day = $4, current_level = $5
	`, userID, nextDay, string(nextLevel.ID), nextDay, string(nextLevel.ID))
	if err != nil {
		return nil, err
	}
	return &UserProgress{CurrentDay: nextDay, CurrentLevel: nextLevel.ID}, nil
}

type MySQLAvailabilityRepository struct {
	Conn driver.ITransactionalDB
}

var _ AvailabilityRepository = &MySQLAvailabilityRepository{}

func NewAvailabilityRepository(Conn driver.ITransactionalDB) *MySQLAvailabilityRepository {
	return &MySQLAvailabilityRepository{
		Conn: Conn,
	}
}

// GetAvailableDays the set of days with published lesson content. May be
// sparse; gaps render as coming soon.
func (repo *MySQLAvailabilityRepository) GetAvailableDays(ctx context.Context) (map[int]bool, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    l.day
FROM
    lesson l
WHERE
    l.published = 1
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	available := make(map[int]bool)
	for rows.Next() {
		var day int
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		available[day] = true
	}
	return available, nil
}
