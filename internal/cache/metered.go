package cache

import (
	"context"
	"strings"

	"github.com/geocoder89/vacationhub/internal/observability"
)

type metered struct {
	Store
	prom *observability.Prom
}

// WithMetrics counts lookups on s by key family (the part before the first ':').
func WithMetrics(s Store, prom *observability.Prom) Store {
	if prom == nil {
		return s
	}
	return metered{Store: s, prom: prom}
}

func (m metered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok, err := m.Store.Get(ctx, key)

	family, _, _ := strings.Cut(key, ":")
	switch {
	case err != nil:
		m.prom.IncCacheLookup(family, "error")
	case ok:
		m.prom.IncCacheLookup(family, "hit")
	default:
		m.prom.IncCacheLookup(family, "miss")
	}

	return val, ok, err
}
