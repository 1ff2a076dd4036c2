// Package keymutex provides a striped mutex keyed by an integer id. The
// purchase/return saga locks the coupon id around its two-step commit so racing
// purchases of the same coupon are serialized.
package keymutex

import (
	"hash/fnv"
	"strconv"
	"sync"
)

const defaultStripes = 64

// KeyMutex is a fixed pool of mutexes. Ids hashing to the same stripe share a
// lock: stripes bound memory while keeping operations on distinct ids almost
// always independent.
type KeyMutex struct {
	stripes []sync.Mutex
}

// New creates a KeyMutex with the given stripe count. If stripes <= 0,
// defaultStripes is used.
func New(stripes int) *KeyMutex {
	if stripes <= 0 {
		stripes = defaultStripes
	}
	return &KeyMutex{stripes: make([]sync.Mutex, stripes)}
}

// Lock acquires the stripe for id.
func (m *KeyMutex) Lock(id int64) {
	m.stripes[m.index(id)].Lock()
}

// Unlock releases the stripe for id.
func (m *KeyMutex) Unlock(id int64) {
	m.stripes[m.index(id)].Unlock()
}

// index maps an id deterministically to a stripe.
func (m *KeyMutex) index(id int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(id, 10)))
	return int(h.Sum32()) % len(m.stripes)
}
