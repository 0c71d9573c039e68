package review

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/linguaday/backend/internal/infrastructure/driver"
	"github.com/linguaday/backend/internal/lesson"
	"github.com/linguaday/backend/internal/roadmap"
)

type fakeLessonRepository struct {
	lessons map[int]*lesson.LessonModel
	err     error
	calls   []int
}

func (r *fakeLessonRepository) GetLesson(ctx context.Context, day int) (*lesson.LessonModel, error) {
	r.calls = append(r.calls, day)
	if r.err != nil {
		return nil, r.err
	}
	if model, ok := r.lessons[day]; ok {
		return model, nil
	}
	return &lesson.LessonModel{Day: day, Flashcards: []*lesson.Flashcard{}}, nil
}

type memoryKV struct {
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string]string)}
}

func (kv *memoryKV) SetEX(key string, value string, _ time.Duration) error {
	kv.data[key] = value
	return nil
}

func (kv *memoryKV) Get(key string) (string, error) {
	value, ok := kv.data[key]
	if !ok {
		return "", &driver.ErrKeyNotFound{Key: key}
	}
	return value, nil
}

func (kv *memoryKV) Del(key string) error {
	delete(kv.data, key)
	return nil
}

func (kv *memoryKV) Exists(key string) (bool, error) {
	_, ok := kv.data[key]
	return ok, nil
}

func (kv *memoryKV) Ping() error { return nil }

func lessonWithCards(day, count int) *lesson.LessonModel {
	model := &lesson.LessonModel{Day: day, Title: "Greetings", Level: roadmap.LevelA1}
	for i := 0; i < count; i++ {
		model.Flashcards = append(model.Flashcards, &lesson.Flashcard{
			ID:          fmt.Sprintf("card_%d", i+1),
			Word:        "hola",
			Translation: "hello",
			SourceDay:   day,
			Level:       roadmap.LevelA1,
		})
	}
	return model
}

func newTestUseCase(lessons map[int]*lesson.LessonModel) (*ReviewUseCaseImpl, *memoryKV, *fakeLessonRepository) {
	repo := &fakeLessonRepository{lessons: lessons}
	kv := newMemoryKV()
	store := NewKVSessionStore(kv, time.Hour)
	ucase := NewReviewUseCase(repo, store, testEngine(1))
	return ucase, kv, repo
}

func TestGetSessionInitializesAndPersists(t *testing.T) {
	ucase, kv, _ := newTestUseCase(map[int]*lesson.LessonModel{5: lessonWithCards(5, 4)})

	state, err := ucase.GetSession(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != StatusActive || state.Day != 5 {
		t.Fatalf("state = %s day %d, want active day 5", state.Status, state.Day)
	}
	if len(state.Queue) != 4 {
		t.Fatalf("queue length = %d, want 4", len(state.Queue))
	}
	if _, ok := kv.data[sessionKey("u1", 5)]; !ok {
		t.Fatal("fresh session not persisted")
	}
}

func TestGetSessionResumesSavedQueue(t *testing.T) {
	ucase, _, _ := newTestUseCase(map[int]*lesson.LessonModel{5: lessonWithCards(5, 4)})
	ctx := context.Background()

	first, err := ucase.GetSession(ctx, "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ucase.Flip(ctx, "u1", 5); err != nil {
		t.Fatal(err)
	}
	answered, err := ucase.Answer(ctx, "u1", 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if answered.Stats.Correct != 1 {
		t.Fatalf("stats = %+v, want one correct", answered.Stats)
	}

	resumed, err := ucase.GetSession(ctx, "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if resumed.Stats.Correct != 1 {
		t.Fatalf("resumed stats = %+v, want one correct", resumed.Stats)
	}
	if len(resumed.Queue) != len(first.Queue) {
		t.Fatalf("resumed queue length = %d, want %d", len(resumed.Queue), len(first.Queue))
	}
	for i := range resumed.Queue {
		if resumed.Queue[i].ID != answered.Queue[i].ID {
			t.Fatal("resumed queue order differs from persisted order")
		}
	}
}

func TestSessionsIsolatedPerUser(t *testing.T) {
	ucase, _, _ := newTestUseCase(map[int]*lesson.LessonModel{5: lessonWithCards(5, 3)})
	ctx := context.Background()

	if _, err := ucase.Flip(ctx, "u1", 5); err != nil {
		t.Fatal(err)
	}
	if _, err := ucase.Answer(ctx, "u1", 5, true); err != nil {
		t.Fatal(err)
	}

	other, err := ucase.GetSession(ctx, "u2", 5)
	if err != nil {
		t.Fatal(err)
	}
	if other.Stats.Correct != 0 {
		t.Fatalf("u2 stats = %+v, want untouched", other.Stats)
	}
}

func TestFallbackToPreviousDay(t *testing.T) {
	ucase, _, repo := newTestUseCase(map[int]*lesson.LessonModel{4: lessonWithCards(4, 3)})

	state, err := ucase.GetSession(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if state.Day != 4 {
		t.Fatalf("effective day = %d, want fallback to 4", state.Day)
	}
	if state.Status != StatusActive {
		t.Fatalf("status = %s, want %s", state.Status, StatusActive)
	}
	if len(repo.calls) != 2 || repo.calls[0] != 5 || repo.calls[1] != 4 {
		t.Fatalf("lesson fetches = %v, want [5 4]", repo.calls)
	}
}

func TestNoFallbackWhenTargetHasCards(t *testing.T) {
	ucase, _, repo := newTestUseCase(map[int]*lesson.LessonModel{
		4: lessonWithCards(4, 3),
		5: lessonWithCards(5, 2),
	})

	state, err := ucase.GetSession(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if state.Day != 5 {
		t.Fatalf("effective day = %d, want 5", state.Day)
	}
	if len(repo.calls) != 1 {
		t.Fatalf("lesson fetches = %v, want just the target day", repo.calls)
	}
}

func TestNoCardsWhenBothDaysEmpty(t *testing.T) {
	ucase, kv, _ := newTestUseCase(nil)

	state, err := ucase.GetSession(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != StatusNoCards {
		t.Fatalf("status = %s, want %s", state.Status, StatusNoCards)
	}
	if len(kv.data) != 0 {
		t.Fatal("no_cards state must not be persisted")
	}
}

func TestDayOneNeverFallsBack(t *testing.T) {
	ucase, _, repo := newTestUseCase(nil)

	state, err := ucase.GetSession(context.Background(), "u1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != StatusNoCards {
		t.Fatalf("status = %s, want %s", state.Status, StatusNoCards)
	}
	if len(repo.calls) != 1 || repo.calls[0] != 1 {
		t.Fatalf("lesson fetches = %v, want [1]", repo.calls)
	}
}

func TestCorruptSessionReinitializes(t *testing.T) {
	ucase, kv, _ := newTestUseCase(map[int]*lesson.LessonModel{5: lessonWithCards(5, 3)})
	kv.data[sessionKey("u1", 5)] = `{"status":"active","queue":`

	state, err := ucase.GetSession(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != StatusActive || len(state.Queue) != 3 {
		t.Fatalf("state = %s with %d cards, want fresh active session", state.Status, len(state.Queue))
	}
	if state.Stats.Correct != 0 || state.Stats.Incorrect != 0 {
		t.Fatalf("stats = %+v, want zeroed", state.Stats)
	}
}

func TestInconsistentSessionReinitializes(t *testing.T) {
	ucase, kv, _ := newTestUseCase(map[int]*lesson.LessonModel{5: lessonWithCards(5, 3)})
	// decodes fine but violates the session shape: active with no progress map
	kv.data[sessionKey("u1", 5)] = `{"status":"active","queue":[{"id":"card_1"}]}`

	state, err := ucase.GetSession(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if state.Progress == nil || len(state.Progress) != 3 {
		t.Fatalf("progress entries = %d, want fresh map of 3", len(state.Progress))
	}
}

func TestAnswerWithoutFlipIsNoOp(t *testing.T) {
	ucase, _, _ := newTestUseCase(map[int]*lesson.LessonModel{5: lessonWithCards(5, 3)})
	ctx := context.Background()

	state, err := ucase.Answer(ctx, "u1", 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if state.Stats.Correct != 0 || state.Stats.Incorrect != 0 {
		t.Fatalf("stats = %+v, want untouched", state.Stats)
	}
	if len(state.Queue) != 3 {
		t.Fatalf("queue length = %d, want untouched 3", len(state.Queue))
	}
}

func TestResetReplacesPersistedSession(t *testing.T) {
	ucase, _, _ := newTestUseCase(map[int]*lesson.LessonModel{5: lessonWithCards(5, 3)})
	ctx := context.Background()

	if _, err := ucase.Flip(ctx, "u1", 5); err != nil {
		t.Fatal(err)
	}
	if _, err := ucase.Answer(ctx, "u1", 5, false); err != nil {
		t.Fatal(err)
	}

	fresh, err := ucase.Reset(ctx, "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Stats.Incorrect != 0 {
		t.Fatalf("stats = %+v, want zeroed", fresh.Stats)
	}
	if len(fresh.Queue) != 3 {
		t.Fatalf("queue length = %d, want 3", len(fresh.Queue))
	}

	resumed, err := ucase.GetSession(ctx, "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if resumed.Stats.Incorrect != 0 {
		t.Fatalf("persisted stats = %+v, want the reset state", resumed.Stats)
	}
}

func TestResetOnNoCardsIsNoOp(t *testing.T) {
	ucase, kv, _ := newTestUseCase(nil)

	state, err := ucase.Reset(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != StatusNoCards {
		t.Fatalf("status = %s, want %s", state.Status, StatusNoCards)
	}
	if len(kv.data) != 0 {
		t.Fatal("reset of an empty day wrote to the store")
	}
}

func TestCompletedSessionReinitializesOnReload(t *testing.T) {
	ucase, _, _ := newTestUseCase(map[int]*lesson.LessonModel{5: lessonWithCards(5, 1)})
	ctx := context.Background()

	var state *SessionState
	var err error
	for i := 0; i < MasteryThreshold; i++ {
		if _, err = ucase.Flip(ctx, "u1", 5); err != nil {
			t.Fatal(err)
		}
		if state, err = ucase.Answer(ctx, "u1", 5, true); err != nil {
			t.Fatal(err)
		}
	}
	if state.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", state.Status, StatusCompleted)
	}

	// a completed session has an empty queue, so the next load starts over
	reloaded, err := ucase.GetSession(ctx, "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Status != StatusActive {
		t.Fatalf("status = %s, want a fresh active session", reloaded.Status)
	}
	if reloaded.Stats.Correct != 0 {
		t.Fatalf("stats = %+v, want zeroed", reloaded.Stats)
	}
}

func TestLessonRepositoryErrorPropagates(t *testing.T) {
	ucase, _, repo := newTestUseCase(nil)
	repo.err = errors.New("connection reset")

	if _, err := ucase.GetSession(context.Background(), "u1", 5); err == nil {
		t.Fatal("repository error swallowed")
	}
}
