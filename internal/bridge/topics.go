package bridge

import (
	"encoding/json"
	"os"
	"sync"
)

// TopicStore maps friend keys to Telegram forum topic ids and persists the
// mapping as JSON so topics survive restarts.
type TopicStore struct {
	mu     sync.Mutex
	path   string
	topics map[string]int64
}

// NewTopicStore loads the mapping at path. A missing or unreadable file
// starts an empty store.
func NewTopicStore(path string) *TopicStore {
	s := &TopicStore{path: path, topics: make(map[string]int64)}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var loaded map[string]int64
	if err := json.Unmarshal(data, &loaded); err == nil && loaded != nil {
		s.topics = loaded
	}
	return s
}

// Get returns the topic id for a friend key.
func (s *TopicStore) Get(key string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.topics[key]
	return id, ok
}

// Set records a topic id for a friend key and persists the store. Persist
// failures are swallowed, the in-memory mapping still works for this run.
func (s *TopicStore) Set(key string, topicID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics[key] = topicID
	if data, err := json.MarshalIndent(s.topics, "", "  "); err == nil {
		_ = os.WriteFile(s.path, data, 0o644)
	}
}
