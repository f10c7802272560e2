// Package probers keeps a bounded memory of the source addresses that have
// queried the decoy, so repeat probers stand out in the query log.
package probers

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/rr-decoy/internal/dns/common/clock"
	"github.com/haukened/rr-decoy/internal/dns/domain"
	"github.com/haukened/rr-decoy/internal/dns/services/responder"
)

// proberTracker counts queries per source IP using an LRU strategy. When the
// tracker is full the least recently seen address is forgotten.
type proberTracker struct {
	clock clock.Clock
	lru   *lru.Cache[string, domain.Sighting]
	mu    sync.Mutex
}

// New returns a tracker remembering up to size addresses.
func New(size int, clk clock.Clock) (*proberTracker, error) {
	cache, err := lru.New[string, domain.Sighting](size)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &proberTracker{clock: clk, lru: cache}, nil
}

// Observe records one query from ip and returns the updated sighting.
func (t *proberTracker) Observe(ip string) domain.Sighting {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, found := t.lru.Get(ip)
	if !found {
		s = domain.Sighting{FirstSeen: t.clock.Now()}
	}
	s.Queries++
	t.lru.Add(ip, s)
	return s
}

// Peek returns the sighting for ip without touching its recency.
func (t *proberTracker) Peek(ip string) (domain.Sighting, bool) {
	return t.lru.Peek(ip)
}

// Len returns the number of addresses currently tracked.
func (t *proberTracker) Len() int {
	return t.lru.Len()
}

var _ responder.ProberTracker = (*proberTracker)(nil)
