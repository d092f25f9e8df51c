package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ask_saturation/internal/models"
)

// MemoryStore keeps tokens in process; a session's list expires ttl after
// its last booking.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, 2*ttl)}
}

func (s *MemoryStore) Append(ctx context.Context, session string, token models.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(session)
	var current []models.Token
	if v, ok := s.cache.Get(key); ok {
		current = v.([]models.Token)
	}

	next := make([]models.Token, len(current), len(current)+1)
	copy(next, current)
	s.cache.SetDefault(key, append(next, token))
	return nil
}

func (s *MemoryStore) List(ctx context.Context, session string) ([]models.Token, error) {
	v, ok := s.cache.Get(sessionKey(session))
	if !ok {
		return []models.Token{}, nil
	}
	return append([]models.Token(nil), v.([]models.Token)...), nil
}

// Flush drops every session.
func (s *MemoryStore) Flush() {
	s.cache.Flush()
}
