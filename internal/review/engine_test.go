package review

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/linguaday/backend/internal/lesson"
)

func testEngine(seed int64) *Engine {
	at := time.Unix(1700000000, 0)
	return NewEngineWithSource(rand.NewSource(seed), func() time.Time { return at })
}

func testCards(n int) []*lesson.Flashcard {
	cards := make([]*lesson.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, &lesson.Flashcard{
			ID:          fmt.Sprintf("card_%d", i+1),
			Word:        "word",
			Translation: "palabra",
		})
	}
	return cards
}

func queueIDs(state *SessionState) map[string]int {
	ids := make(map[string]int)
	for _, card := range state.Queue {
		ids[card.ID]++
	}
	return ids
}

func TestNewSessionShufflesWithoutLossOrDuplication(t *testing.T) {
	cards := testCards(12)
	state := testEngine(1).NewSession(3, cards)

	if state.Status != StatusActive {
		t.Fatalf("status = %s, want %s", state.Status, StatusActive)
	}
	if len(state.Queue) != len(cards) {
		t.Fatalf("queue length = %d, want %d", len(state.Queue), len(cards))
	}
	ids := queueIDs(state)
	for _, card := range cards {
		if ids[card.ID] != 1 {
			t.Errorf("card %s appears %d times in queue, want exactly once", card.ID, ids[card.ID])
		}
	}
	for _, card := range cards {
		progress := state.Progress[card.ID]
		if progress == nil || progress.State != CardNew || progress.ReviewCount != 0 {
			t.Errorf("card %s: progress not zeroed: %+v", card.ID, progress)
		}
	}
	if state.Revealed {
		t.Error("fresh session starts revealed")
	}
}

func TestNewSessionEmptyCards(t *testing.T) {
	state := testEngine(1).NewSession(3, nil)
	if state.Status != StatusNoCards {
		t.Fatalf("status = %s, want %s", state.Status, StatusNoCards)
	}
	if state.CurrentCard() != nil {
		t.Error("no_cards session has a current card")
	}
}

func TestFlipGatesAnswer(t *testing.T) {
	engine := testEngine(1)
	state := engine.NewSession(3, testCards(5))

	if engine.Answer(state, true) {
		t.Fatal("answer accepted before flip")
	}
	if state.Stats.Correct != 0 || state.Stats.Incorrect != 0 {
		t.Fatalf("rejected answer mutated stats: %+v", state.Stats)
	}

	if !engine.Flip(state) {
		t.Fatal("flip rejected on active session")
	}
	if !engine.Answer(state, true) {
		t.Fatal("answer rejected after flip")
	}
	if state.Revealed {
		t.Error("revealed flag not cleared after answer")
	}

	// the next card needs its own flip
	if engine.Answer(state, true) {
		t.Error("answer accepted without re-flipping")
	}
}

func TestFlipToggle(t *testing.T) {
	engine := testEngine(1)
	state := engine.NewSession(3, testCards(2))

	engine.Flip(state)
	if !state.Revealed {
		t.Fatal("flip did not reveal")
	}
	engine.Flip(state)
	if state.Revealed {
		t.Fatal("second flip did not hide")
	}
}

func answerCurrent(t *testing.T, engine *Engine, state *SessionState, correct bool) {
	t.Helper()
	if !engine.Flip(state) {
		t.Fatal("flip rejected")
	}
	if !engine.Answer(state, correct) {
		t.Fatal("answer rejected")
	}
}

func TestWrongAnswerReinsertsNearFront(t *testing.T) {
	engine := testEngine(7)
	state := engine.NewSession(3, testCards(12))
	card := state.CurrentCard()

	answerCurrent(t, engine, state, false)

	// remaining queue had 11 cards: floor(11/3) = 3, capped at 3
	if got := indexOf(state, card.ID); got != 3 {
		t.Errorf("wrong-answered card at index %d, want 3", got)
	}
	if len(state.Queue) != 12 {
		t.Errorf("queue length = %d, want 12", len(state.Queue))
	}
	progress := state.Progress[card.ID]
	if progress.IncorrectCount != 1 || progress.State != CardLearning {
		t.Errorf("progress = %+v, want one incorrect, learning", progress)
	}
}

func TestCorrectAnswerReinsertsNearBack(t *testing.T) {
	engine := testEngine(7)
	state := engine.NewSession(3, testCards(11))
	card := state.CurrentCard()

	answerCurrent(t, engine, state, true)

	// remaining queue had 10 cards: floor(10 * 0.7) = 7
	if got := indexOf(state, card.ID); got != 7 {
		t.Errorf("correct-answered card at index %d, want 7", got)
	}
	progress := state.Progress[card.ID]
	if progress.CorrectCount != 1 || progress.State != CardLearning {
		t.Errorf("progress = %+v, want one correct, learning", progress)
	}
}

func TestSingleCardQueueStaysCurrent(t *testing.T) {
	engine := testEngine(7)
	state := engine.NewSession(3, testCards(1))
	card := state.CurrentCard()

	answerCurrent(t, engine, state, false)
	if state.CurrentCard() == nil || state.CurrentCard().ID != card.ID {
		t.Fatal("single unmastered card left the queue on a wrong answer")
	}

	answerCurrent(t, engine, state, true)
	if state.CurrentCard() == nil || state.CurrentCard().ID != card.ID {
		t.Fatal("single unmastered card left the queue on a correct answer")
	}
	if state.Status != StatusActive {
		t.Fatalf("status = %s, want %s", state.Status, StatusActive)
	}
}

func TestMasteryRetiresCard(t *testing.T) {
	engine := testEngine(3)
	state := engine.NewSession(3, testCards(4))
	target := state.CurrentCard().ID

	answered := 0
	for state.Status == StatusActive && answered < 200 {
		correct := state.CurrentCard().ID == target
		answerCurrent(t, engine, state, correct)
		answered++

		if state.Progress[target].State == CardMastered {
			break
		}
	}

	progress := state.Progress[target]
	if progress.State != CardMastered || progress.CorrectCount != MasteryThreshold {
		t.Fatalf("target progress = %+v, want mastered at %d correct", progress, MasteryThreshold)
	}
	if queueIDs(state)[target] != 0 {
		t.Fatal("mastered card still in queue")
	}

	// mastered cards never resurface for the rest of the pass
	for i := 0; i < 20 && state.Status == StatusActive; i++ {
		if state.CurrentCard().ID == target {
			t.Fatal("mastered card became current again")
		}
		answerCurrent(t, engine, state, false)
	}
}

func TestAllCorrectCompletesSession(t *testing.T) {
	engine := testEngine(11)
	state := engine.NewSession(3, testCards(5))

	answered := 0
	for state.Status == StatusActive {
		answerCurrent(t, engine, state, true)
		answered++
		if answered > 5*MasteryThreshold {
			t.Fatalf("session not completed after %d correct answers", answered)
		}
	}

	if state.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", state.Status, StatusCompleted)
	}
	if answered != 5*MasteryThreshold {
		t.Errorf("answered %d times, want %d", answered, 5*MasteryThreshold)
	}
	if state.Stats.Correct != answered || state.Stats.Incorrect != 0 {
		t.Errorf("stats = %+v, want %d correct and no incorrect", state.Stats, answered)
	}
	for id, progress := range state.Progress {
		if progress.State != CardMastered {
			t.Errorf("card %s: state = %s, want mastered", id, progress.State)
		}
	}
	if engine.Flip(state) {
		t.Error("flip accepted on a completed session")
	}
	if engine.Answer(state, true) {
		t.Error("answer accepted on a completed session")
	}
}

func TestQueueConservation(t *testing.T) {
	engine := testEngine(13)
	state := engine.NewSession(3, testCards(9))

	for i := 0; i < 60 && state.Status == StatusActive; i++ {
		before := len(state.Queue)
		masteredNext := state.Progress[state.CurrentCard().ID].CorrectCount == MasteryThreshold-1
		correct := i%3 != 0
		answerCurrent(t, engine, state, correct)

		want := before
		if correct && masteredNext {
			want = before - 1
		}
		if len(state.Queue) != want {
			t.Fatalf("step %d: queue length %d, want %d", i, len(state.Queue), want)
		}
		for id, n := range queueIDs(state) {
			if n != 1 {
				t.Fatalf("step %d: card %s appears %d times", i, id, n)
			}
		}
	}
}

func TestResetRestoresFreshState(t *testing.T) {
	engine := testEngine(17)
	state := engine.NewSession(3, testCards(6))

	answerCurrent(t, engine, state, true)
	answerCurrent(t, engine, state, false)

	reset := engine.Reset(state)
	if reset.Status != StatusActive {
		t.Fatalf("status = %s, want %s", reset.Status, StatusActive)
	}
	if reset.Stats.Correct != 0 || reset.Stats.Incorrect != 0 {
		t.Errorf("stats not zeroed: %+v", reset.Stats)
	}
	if len(reset.Queue) != 6 {
		t.Errorf("queue length = %d, want 6", len(reset.Queue))
	}
	for id, progress := range reset.Progress {
		if progress.ReviewCount != 0 || progress.State != CardNew {
			t.Errorf("card %s: progress not zeroed: %+v", id, progress)
		}
	}
	if reset.Revealed {
		t.Error("reset session starts revealed")
	}
	if reset.Day != state.Day {
		t.Errorf("day = %d, want %d", reset.Day, state.Day)
	}
}

func indexOf(state *SessionState, id string) int {
	for i, card := range state.Queue {
		if card.ID == id {
			return i
		}
	}
	return -1
}
