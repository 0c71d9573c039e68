package review

import (
	"math/rand"
	"time"

	"github.com/linguaday/backend/internal/lesson"
)

// reinsertion offsets, preserved exactly from the original scheduling
// heuristic: wrong answers resurface almost immediately, correct but
// unmastered answers are pushed into the last ~30% of the queue. No
// wall-clock intervals are modeled; spacing is purely positional.
const (
	wrongAnswerMaxOffset = 3
	wrongAnswerDivisor   = 3
	correctAnswerFactor  = 0.7
)

// Engine applies queue transitions to review sessions. It holds no session
// state of its own; randomness and clock are injected so tests stay
// deterministic.
type Engine struct {
	rng *rand.Rand
	now func() time.Time
}

// NewEngine create an engine with a time-seeded shuffle source
func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()), time.Now)
}

// NewEngineWithSource create an engine with explicit randomness and clock
func NewEngineWithSource(src rand.Source, now func() time.Time) *Engine {
	return &Engine{rng: rand.New(src), now: now}
}

// NewSession initialize a fresh session from normalized cards. The queue is
// an unbiased permutation of the card list; every card starts with zeroed
// progress. An empty card list yields the terminal no_cards state.
func (e *Engine) NewSession(day int, cards []*lesson.Flashcard) *SessionState {
	state := &SessionState{
		Day:         day,
		Progress:    make(map[string]*CardProgress, len(cards)),
		Original:    cards,
		LastUpdated: e.nowMillis(),
	}
	if len(cards) == 0 {
		state.Status = StatusNoCards
		state.Queue = []*lesson.Flashcard{}
		return state
	}

	queue := make([]*lesson.Flashcard, len(cards))
	copy(queue, cards)
	e.rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})

	for _, card := range cards {
		state.Progress[card.ID] = &CardProgress{State: CardNew}
	}
	state.Queue = queue
	state.Status = StatusActive
	return state
}

// Flip toggle the answer-revealed flag of the current card. Pure
// presentation state, but answers are only legal while revealed.
func (e *Engine) Flip(state *SessionState) bool {
	if state.Status != StatusActive || state.CurrentCard() == nil {
		return false
	}
	state.Revealed = !state.Revealed
	state.LastUpdated = e.nowMillis()
	return true
}

// Answer record the outcome for the current card and re-sequence the queue.
// Returns false, leaving the session untouched, when the preconditions do
// not hold (no current card, or the answer is not revealed).
//
// The card leaves the queue permanently only when the answer is correct and
// brings its correct count to the mastery threshold; otherwise it is
// reinserted at a position derived from the remaining queue length.
func (e *Engine) Answer(state *SessionState, correct bool) bool {
	if state.Status != StatusActive || !state.Revealed {
		return false
	}
	card := state.CurrentCard()
	if card == nil {
		return false
	}

	if correct {
		state.Stats.Correct++
	} else {
		state.Stats.Incorrect++
	}

	progress := state.Progress[card.ID]
	if progress == nil {
		progress = &CardProgress{}
		state.Progress[card.ID] = progress
	}
	if correct {
		progress.CorrectCount++
	} else {
		progress.IncorrectCount++
	}
	progress.ReviewCount++
	progress.LastSeenAt = e.nowMillis()
	progress.State = progress.DeriveState()

	rest := state.Queue[1:]
	if correct && progress.State == CardMastered {
		// retired for this pass, never reinserted
		state.Queue = append([]*lesson.Flashcard{}, rest...)
	} else {
		state.Queue = insertAt(rest, card, reinsertIndex(correct, len(rest)))
	}

	state.Revealed = false
	state.LastUpdated = e.nowMillis()
	if len(state.Queue) == 0 {
		state.Status = StatusCompleted
	}
	return true
}

// Reset rebuild a fresh session from the original card set with zeroed
// stats and progress. Legal from any state.
func (e *Engine) Reset(state *SessionState) *SessionState {
	return e.NewSession(state.Day, state.Original)
}

// reinsertIndex where an answered, unmastered card goes back into the
// remaining queue of length n
func reinsertIndex(correct bool, n int) int {
	if !correct {
		idx := n / wrongAnswerDivisor
		if idx > wrongAnswerMaxOffset {
			idx = wrongAnswerMaxOffset
		}
		return idx
	}
	idx := int(float64(n) * correctAnswerFactor)
	if idx > n {
		idx = n
	}
	return idx
}

func insertAt(queue []*lesson.Flashcard, card *lesson.Flashcard, idx int) []*lesson.Flashcard {
	result := make([]*lesson.Flashcard, 0, len(queue)+1)
	result = append(result, queue[:idx]...)
	result = append(result, card)
	result = append(result, queue[idx:]...)
	return result
}

func (e *Engine) nowMillis() int64 {
	return e.now().UnixNano() / int64(time.Millisecond)
}
