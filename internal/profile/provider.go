// internal/profile/provider.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"interview-portal/internal/common/logger"
	"interview-portal/internal/models"
)

// UserKey is the storage key of the client-local user record.
const UserKey = "user"

const (
	defaultCacheTTL     = 30 * time.Second
	defaultCacheEntries = 10000
)

var ErrClientIDRequired = errors.New("CLIENT_ID_REQUIRED")

type cacheEntry struct {
	profile models.Profile
	expires time.Time
}

// Provider is the single read-through cache in front of the stored user
// record. Every handler that needs the user classification goes through it.
type Provider struct {
	redis  redis.Cmdable
	prefix string
	ttl    time.Duration
	max    int
	log    logger.Logger
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewProvider(rdb redis.Cmdable, prefix string, log logger.Logger) *Provider {
	if prefix == "" {
		prefix = "portal:client"
	}
	return &Provider{
		redis:  rdb,
		prefix: prefix,
		ttl:    defaultCacheTTL,
		max:    defaultCacheEntries,
		log:    log,
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
}

func (p *Provider) key(clientID string) string {
	return fmt.Sprintf("%s:%s:%s", p.prefix, clientID, UserKey)
}

// Get returns the classified user for clientID. A missing or unreadable
// record degrades to a guest; only store failures are returned as errors,
// and even then the guest profile is usable.
func (p *Provider) Get(ctx context.Context, clientID string) (models.Profile, error) {
	guest := models.Profile{Class: models.UserGuest}
	if clientID == "" {
		return guest, nil
	}

	p.mu.Lock()
	if e, ok := p.cache[clientID]; ok && p.now().Before(e.expires) {
		p.mu.Unlock()
		return e.profile, nil
	}
	p.mu.Unlock()

	raw, err := p.redis.Get(ctx, p.key(clientID)).Bytes()
	if err != nil {
		// misses are not cached
		if errors.Is(err, redis.Nil) {
			return guest, nil
		}
		p.log.Error("Failed to read stored user", map[string]interface{}{
			"client_id": clientID,
			"error":     err,
		})
		return guest, fmt.Errorf("read user for client %s: %w", clientID, err)
	}

	prof := decode(raw)
	if prof.Class == models.UserGuest {
		p.log.Warn("Stored user record is malformed, treating client as guest", map[string]interface{}{
			"client_id": clientID,
			"bytes":     len(raw),
		})
	}
	p.store(clientID, prof)
	return prof, nil
}

// decode never fails: anything that is not a JSON object is a guest.
func decode(raw []byte) models.Profile {
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.Profile{Class: models.UserGuest}
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		return models.Profile{Class: models.UserGuest}
	}
	return models.Profile{User: &u, Class: models.Classify(&u)}
}

// Save writes the record and invalidates the cached classification.
func (p *Provider) Save(ctx context.Context, clientID string, u models.User) (models.Profile, error) {
	if clientID == "" {
		return models.Profile{}, ErrClientIDRequired
	}
	buf, err := json.Marshal(u)
	if err != nil {
		return models.Profile{}, fmt.Errorf("encode user: %w", err)
	}
	if err := p.redis.Set(ctx, p.key(clientID), string(buf), 0).Err(); err != nil {
		return models.Profile{}, fmt.Errorf("write user for client %s: %w", clientID, err)
	}
	p.Invalidate(clientID)

	p.log.Info("Stored user updated", map[string]interface{}{
		"client_id":  clientID,
		"has_resume": u.HasResume,
	})
	return models.Profile{User: &u, Class: models.Classify(&u)}, nil
}

// Clear removes the stored record, turning the client back into a guest.
func (p *Provider) Clear(ctx context.Context, clientID string) error {
	if clientID == "" {
		return ErrClientIDRequired
	}
	if err := p.redis.Del(ctx, p.key(clientID)).Err(); err != nil {
		return fmt.Errorf("delete user for client %s: %w", clientID, err)
	}
	p.Invalidate(clientID)
	return nil
}

func (p *Provider) Invalidate(clientID string) {
	p.mu.Lock()
	delete(p.cache, clientID)
	p.mu.Unlock()
}

// store caches prof. Expired entries are swept once the cache is full, and
// nothing new is cached while it stays full.
func (p *Provider) store(clientID string, prof models.Profile) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if _, ok := p.cache[clientID]; !ok && len(p.cache) >= p.max {
		for id, e := range p.cache {
			if !now.Before(e.expires) {
				delete(p.cache, id)
			}
		}
		if len(p.cache) >= p.max {
			return
		}
	}
	p.cache[clientID] = cacheEntry{profile: prof, expires: now.Add(p.ttl)}
}

// cached reports how many classifications are held in memory.
func (p *Provider) cached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cache)
}
