package synergy

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ramonehamilton/deckforge/internal/cards"
)

// Cache is an advisory store for computed synergy scores, keyed by
// strategy and mechanics. It is safe for concurrent use; overwrites are
// last-writer-wins, which is fine because entries for the same key are
// computed identically. Correctness never depends on a hit.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]map[string]float64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]map[string]float64)}
}

// Key builds the cache key for a strategy and mechanics set. Mechanics are
// sorted so the key is order-independent.
func Key(strategy string, mechanics []string) string {
	sorted := make([]string, len(mechanics))
	copy(sorted, mechanics)
	sort.Strings(sorted)
	return strings.ToLower(strategy) + "_" + strings.Join(sorted, "-")
}

// Get returns the cached scores for a key, or nil on a miss.
func (c *Cache) Get(key string) map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

// Put stores scores for a key.
func (c *Cache) Put(key string, scores map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = scores
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CachingScorer wraps a Scorer with a Cache. Cached results are filtered
// to the requested pool, so a hit computed from a larger pool still only
// returns scores for cards the caller asked about.
type CachingScorer struct {
	scorer Scorer
	cache  *Cache
}

// NewCachingScorer wraps a scorer. A nil cache gets a fresh one.
func NewCachingScorer(scorer Scorer, cache *Cache) *CachingScorer {
	if cache == nil {
		cache = NewCache()
	}
	return &CachingScorer{scorer: scorer, cache: cache}
}

// Scores returns cached scores when available, otherwise delegates and
// caches the result.
func (s *CachingScorer) Scores(ctx context.Context, pool []*cards.Card, strategy string, mechanics []string) (map[string]float64, error) {
	key := Key(strategy, mechanics)

	if cached := s.cache.Get(key); cached != nil {
		return filterForPool(cached, pool), nil
	}

	scores, err := s.scorer.Scores(ctx, pool, strategy, mechanics)
	if err != nil {
		return nil, err
	}

	s.cache.Put(key, scores)
	// Hand back a filtered copy, not the cached map, so caller
	// mutations cannot poison later hits.
	return filterForPool(scores, pool), nil
}
