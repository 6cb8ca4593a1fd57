package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jengzang/subscriber-insights-go/internal/models"
)

// Cache names used as metric labels
const (
	NameProfile   = "profile"
	NameSummary   = "summary"
	NameMap       = "map"
	NameAnalytics = "analytics"
)

// Pages is a size-bounded LRU of rendered HTML with a TTL per entry
type Pages struct {
	name string
	lru  *expirable.LRU[string, string]
}

// NewPages creates an LRU holding at most size pages for ttl each
func NewPages(name string, size int, ttl time.Duration) *Pages {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	p := &Pages{name: name}
	p.lru = expirable.NewLRU[string, string](size, func(string, string) {
		cacheEvictionsTotal.WithLabelValues(name).Inc()
	}, ttl)
	return p
}

// Get returns a cached page
func (p *Pages) Get(key string) (string, bool) {
	html, ok := p.lru.Get(key)
	if ok {
		cacheHitsTotal.WithLabelValues(p.name).Inc()
		return html, true
	}
	cacheMissesTotal.WithLabelValues(p.name).Inc()
	return "", false
}

// Set stores a page
func (p *Pages) Set(key, html string) {
	p.lru.Add(key, html)
}

// Len returns the number of cached pages
func (p *Pages) Len() int {
	return p.lru.Len()
}

// Set groups the caches shared by the services
type Set struct {
	Profiles  *TTL[string, *models.Profile]
	Summaries *TTL[string, *models.Overview]
	Analytics *TTL[string, []models.RSRPRecord] // RSRP rows by site ID
	Maps      *Pages
}

// NewSet builds every cache from the same options
func NewSet(opts Options, mapSize int) *Set {
	opts.setDefaults()
	return &Set{
		Profiles:  NewTTL[string, *models.Profile](NameProfile, opts),
		Summaries: NewTTL[string, *models.Overview](NameSummary, opts),
		Analytics: NewTTL[string, []models.RSRPRecord](NameAnalytics, opts),
		Maps:      NewPages(NameMap, mapSize, opts.TTL),
	}
}
