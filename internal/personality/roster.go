// Package personality loads the tenant's AI employees and runs chat
// conversations with them.
package personality

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/logger"
)

// Lister is the slice of the API client the roster needs.
type Lister interface {
	ListPersonalities(ctx context.Context, rc api.RequestContext) ([]api.Personality, error)
}

// Source says where a roster came from.
type Source string

const (
	SourceAPI     Source = "api"
	SourceCache   Source = "cache"
	SourceDefault Source = "default"
)

const placeholderPrefix = "default-"

// DefaultRoster is shown when the tenant has no personalities or they could
// not be loaded. Its members are placeholders that cannot chat.
func DefaultRoster() []api.Personality {
	return []api.Personality{
		{ID: placeholderPrefix + "receptionist", Name: "Riley", Role: "Receptionist", Description: "Answers enquiries and books appointments."},
		{ID: placeholderPrefix + "marketer", Name: "Morgan", Role: "Marketing Assistant", Description: "Drafts posts, ads and newsletters."},
		{ID: placeholderPrefix + "bookkeeper", Name: "Blake", Role: "Bookkeeper", Description: "Chases invoices and explains your numbers."},
	}
}

// IsPlaceholder reports whether p comes from DefaultRoster.
func IsPlaceholder(p api.Personality) bool {
	return strings.HasPrefix(string(p.ID), placeholderPrefix)
}

// Roster loads personalities with a per-tenant LRU cache.
type Roster struct {
	client Lister
	cache  *lru.Cache[string, []api.Personality]
}

// CacheSize is the number of tenants a roster remembers.
const CacheSize = 64

// NewRoster returns a roster over client caching up to size tenants.
func NewRoster(client Lister, size int) (*Roster, error) {
	cache, err := lru.New[string, []api.Personality](size)
	if err != nil {
		return nil, fmt.Errorf("creating roster cache: %w", err)
	}
	return &Roster{client: client, cache: cache}, nil
}

type listResult struct {
	list []api.Personality
	err  error
}

// Load returns the tenant's personalities. Failures, empty results and
// cancellation all yield DefaultRoster. Only real API results are cached, and
// a result arriving after ctx is done is dropped.
func (r *Roster) Load(ctx context.Context, rc api.RequestContext) ([]api.Personality, Source) {
	if list, ok := r.cache.Get(rc.TenantID); ok {
		return clone(list), SourceCache
	}

	done := make(chan listResult, 1)
	go func() {
		list, err := r.client.ListPersonalities(ctx, rc)
		done <- listResult{list: list, err: err}
	}()

	var res listResult
	select {
	case <-ctx.Done():
		logger.Debug("personality load cancelled: %v", ctx.Err())
		return DefaultRoster(), SourceDefault
	case res = <-done:
	}

	if res.err != nil {
		logger.Warn("loading personalities: %v", res.err)
		return DefaultRoster(), SourceDefault
	}
	if len(res.list) == 0 {
		return DefaultRoster(), SourceDefault
	}
	r.cache.Add(rc.TenantID, clone(res.list))
	return res.list, SourceAPI
}

// Invalidate drops the cached roster of a tenant.
func (r *Roster) Invalidate(tenantID string) {
	r.cache.Remove(tenantID)
}

// Find returns the personality with id from list.
func Find(list []api.Personality, id string) (api.Personality, bool) {
	for _, p := range list {
		if string(p.ID) == id {
			return p, true
		}
	}
	return api.Personality{}, false
}

func clone(list []api.Personality) []api.Personality {
	return append([]api.Personality(nil), list...)
}
