package memory

import (
	"time"

	"blii-be/pkg/assistant/convstate"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds per-user conversation state in memory. State is
// ephemeral on purpose: an app restart or an hour of silence starts a fresh
// conversation.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(userId string, state *convstate.State) {
	r.cache.Set(userId, state, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(userId string) (*convstate.State, bool) {
	if x, found := r.cache.Get(userId); found {
		return x.(*convstate.State), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(userId string) {
	r.cache.Delete(userId)
}
