package roster

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProvider wraps a Provider with a short-TTL Redis read-through cache.
// Roster mutations are owned by another service, so a stale read inside the
// TTL window is the same eventual-consistency gap the rest of the system
// already accepts. Cache failures fall through to the source.
type CachedProvider struct {
	src    Provider
	client *redis.Client
	ttl    time.Duration
}

// NewCachedProvider builds a cached provider. A nil client disables caching.
func NewCachedProvider(src Provider, client *redis.Client, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedProvider{src: src, client: client, ttl: ttl}
}

// FindClassByName resolves a class. Only found classes are cached; caching
// misses would churn keys for every typo'd name.
func (p *CachedProvider) FindClassByName(ctx context.Context, name string) (*Class, error) {
	key := "classtrack:class:" + name
	if p.client != nil {
		if raw, err := p.client.Get(ctx, key).Result(); err == nil {
			var cls Class
			if json.Unmarshal([]byte(raw), &cls) == nil {
				return &cls, nil
			}
		}
	}
	cls, err := p.src.FindClassByName(ctx, name)
	if err != nil || cls == nil {
		return cls, err
	}
	p.put(ctx, key, cls)
	return cls, nil
}

// FindStudentsByClass returns the roster, served from cache when fresh.
func (p *CachedProvider) FindStudentsByClass(ctx context.Context, classID string) ([]Student, error) {
	key := "classtrack:roster:" + classID
	if p.client != nil {
		if raw, err := p.client.Get(ctx, key).Result(); err == nil {
			var students []Student
			if json.Unmarshal([]byte(raw), &students) == nil {
				return students, nil
			}
		}
	}
	students, err := p.src.FindStudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	p.put(ctx, key, students)
	return students, nil
}

func (p *CachedProvider) put(ctx context.Context, key string, v any) {
	if p.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := p.client.Set(ctx, key, raw, p.ttl).Err(); err != nil {
		log.Printf("roster cache set %s failed: %v", key, err)
	}
}
