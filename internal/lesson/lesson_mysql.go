package lesson

import (
	"context"
	"database/sql"

	"github.com/linguaday/backend/internal/infrastructure/driver"
	"github.com/linguaday/backend/internal/roadmap"
)

type MySQLLessonRepository struct {
	Conn driver.ITransactionalDB
}

var _ LessonRepository = &MySQLLessonRepository{}

func NewLessonRepository(Conn driver.ITransactionalDB) *MySQLLessonRepository {
	return &MySQLLessonRepository{
		Conn: Conn,
	}
}

// GetLesson fetch one day of content with its flashcards in authoring order.
// A day without a published lesson row comes back as an empty lesson.
func (repo *MySQLLessonRepository) GetLesson(ctx context.Context, day int) (*LessonModel, error) {
	conn := repo.Conn

	result := &LessonModel{Day: day, Flashcards: []*Flashcard{}}
	if level, ok := roadmap.LevelForDay(day); ok {
		result.Level = level.ID
	}

	rows, err := conn.QueryContext(ctx, `
SELECT
    l.title, l.level
FROM
    lesson l
WHERE
    l.day = $1 AND l.published = 1
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return result, nil
	}
	var level string
	if err := rows.Scan(&result.Title, &level); err != nil {
		return nil, err
	}
	result.Level = roadmap.LevelID(level)

	cardRows, err := conn.QueryContext(ctx, `
SELECT
    fc.card_id, fc.word, fc.translation, fc.example
FROM
    flashcard fc
WHERE
    fc.lesson_day = $1
ORDER BY fc.position ASC
	`, day)
	if err != nil {
		return nil, err
	}
	defer cardRows.Close()

	for cardRows.Next() {
		var (
			cardID  sql.NullString
			example sql.NullString
		)
		card := new(Flashcard)
		if err := cardRows.Scan(&cardID, &card.Word, &card.Translation, &example); err != nil {
			return nil, err
		}
		card.ID = cardID.String
		card.Example = example.String
		result.Flashcards = append(result.Flashcards, card)
	}
	result.Flashcards = NormalizeFlashcards(result.Flashcards, day, result.Level)
	return result, nil
}
