// Package goals implements the conversion-goal matcher (component K): an
// additive, in-memory annotation step that tags an enriched event with a
// goal identifier when its page path or event name matches a configured
// rule. It never gates ingestion — a cache miss triggers a refresh, and a
// refresh failure produces no tag (or a tag from stale cached rules).
package goals

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trailbeacon/core/internal/logging"
)

// Goal is a single conversion rule for a site.
type Goal struct {
	ID     string
	Type   string // "page_view" or "custom_event"
	Target string
}

const (
	TypePageView    = "page_view"
	TypeCustomEvent = "custom_event"
)

const defaultTTL = 5 * time.Minute

type entry struct {
	goals     []Goal
	fetchedAt time.Time
}

// Cache is a site-keyed, TTL-expiring, RWMutex-guarded set of goal rules.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	db      *sql.DB
}

// NewCache builds a Cache backed by db for refreshes. db may be nil, in
// which case every lookup is a soft no-op that always returns no goals.
func NewCache(db *sql.DB) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     defaultTTL,
		db:      db,
	}
}

// Match returns the ID of the first goal configured for siteID whose type
// and target match (pagePath, eventName), or "" if none match. A refresh
// failure is logged rather than propagated: the expired cache entry is
// used if one exists, otherwise it is treated as "no goals configured".
func (c *Cache) Match(ctx context.Context, siteID, pagePath, eventName string) string {
	for _, g := range c.goalsFor(ctx, siteID) {
		switch g.Type {
		case TypePageView:
			if g.Target == pagePath {
				return g.ID
			}
		case TypeCustomEvent:
			if g.Target == eventName {
				return g.ID
			}
		}
	}
	return ""
}

func (c *Cache) goalsFor(ctx context.Context, siteID string) []Goal {
	c.mu.RLock()
	e, ok := c.entries[siteID]
	c.mu.RUnlock()

	if ok && time.Since(e.fetchedAt) < c.ttl {
		return e.goals
	}

	fresh, err := c.refresh(ctx, siteID)
	if err != nil {
		logging.L().Warn("goals: refresh failed, proceeding without goal tags",
			zap.String("site_id", siteID), zap.Error(err))
		if ok {
			return e.goals // stale data is still better than nothing
		}
		return nil
	}

	c.mu.Lock()
	c.entries[siteID] = entry{goals: fresh, fetchedAt: time.Now()}
	c.mu.Unlock()

	return fresh
}

func (c *Cache) refresh(ctx context.Context, siteID string) ([]Goal, error) {
	if c.db == nil {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT id, type, target FROM goals WHERE site_id = $1`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Type, &g.Target); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
