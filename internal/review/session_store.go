package review

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/linguaday/backend/internal/infrastructure/driver"
)

// KVSessionStore session persistence on the key-value store. Writes are
// synchronous and last-write-wins per key; a malformed payload is treated as
// absent so a corrupted session reinitializes instead of wedging the user.
type KVSessionStore struct {
	KVStore driver.KeyValueDB
	TTL     time.Duration
}

var _ SessionStore = &KVSessionStore{}

func NewKVSessionStore(KVStore driver.KeyValueDB, TTL time.Duration) *KVSessionStore {
	return &KVSessionStore{KVStore: KVStore, TTL: TTL}
}

func sessionKey(userID string, day int) string {
	return fmt.Sprintf("review:v1:%s:day:%d", userID, day)
}

// Load fetch and decode a persisted session. The second return is false for
// missing, expired, or corrupt entries.
func (store *KVSessionStore) Load(userID string, day int) (*SessionState, bool) {
	payload, err := store.KVStore.Get(sessionKey(userID, day))
	if err != nil {
		return nil, false
	}

	state := new(SessionState)
	if err := json.Unmarshal([]byte(payload), state); err != nil {
		return nil, false
	}
	if !validSession(state) {
		return nil, false
	}
	return state, true
}

// Save overwrite the persisted session for this key
func (store *KVSessionStore) Save(userID string, day int, state *SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return store.KVStore.SetEX(sessionKey(userID, day), string(payload), store.TTL)
}

// Clear drop the persisted session for this key
func (store *KVSessionStore) Clear(userID string, day int) error {
	return store.KVStore.Del(sessionKey(userID, day))
}

// validSession sanity checks against partially written or hand-edited
// payloads; anything inconsistent is discarded per the recovery contract
func validSession(state *SessionState) bool {
	switch state.Status {
	case StatusActive, StatusCompleted, StatusNoCards:
	default:
		return false
	}
	if state.Progress == nil {
		return false
	}
	for _, card := range state.Queue {
		if card == nil || card.ID == "" {
			return false
		}
	}
	if state.Status == StatusActive && len(state.Queue) == 0 {
		return false
	}
	return true
}
