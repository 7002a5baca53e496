package expansion

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/phil-mansfield/rt1/scatter"
)

// DefaultCacheSize is the number of expansions a Cache made by NewCache(0)
// holds.
const DefaultCacheSize = 64

// Cache memoizes derived expansions by the keys of their providers. A Cache is
// safe for concurrent use, and concurrent requests for the same missing
// expansion share a single derivation.
type Cache struct {
	exps   *lru.Cache // pairKey -> *Expansion
	group  singleflight.Group
	derive func(scatter.Volume, scatter.Surface) (*Expansion, error)
}

// NewCache returns a Cache which holds up to size expansions. If size is zero,
// DefaultCacheSize is used.
func NewCache(size int) (*Cache, error) {
	if size == 0 {
		size = DefaultCacheSize
	}
	exps, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("could not make expansion cache: %w", err)
	}
	return &Cache{exps: exps, derive: Derive}, nil
}

// Get returns the expansion of v and s, deriving it if it isn't already
// cached. Failed derivations are not cached.
func (c *Cache) Get(v scatter.Volume, s scatter.Surface) (*Expansion, error) {
	if err := scatter.Validate(v); err != nil {
		return nil, err
	} else if err := scatter.Validate(s); err != nil {
		return nil, err
	}

	key := pairKey(v.Key(), s.Key())
	if e, ok := c.exps.Get(key); ok {
		return e.(*Expansion), nil
	}

	e, err, _ := c.group.Do(key, func() (interface{}, error) {
		if e, ok := c.exps.Get(key); ok {
			return e, nil
		}
		e, err := c.derive(v, s)
		if err != nil {
			return nil, err
		}
		c.exps.Add(key, e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return e.(*Expansion), nil
}

// Len returns the number of cached expansions.
func (c *Cache) Len() int { return c.exps.Len() }

// Purge removes every cached expansion.
func (c *Cache) Purge() { c.exps.Purge() }
