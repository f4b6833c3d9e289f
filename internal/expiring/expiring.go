// Package expiring introduces tables with the ability to prune their own elements.
package expiring

import (
	"sync"
	"time"
)

// wrapped value with an expiration timer attached
type timedV[value_t any] struct {
	val value_t
	exp *time.Timer
}

// A Table is a mutex-guarded map whose elements prune themselves after their duration elapses.
// Construct via New.
//
// NOTE(_): Tables should only be passed by reference due to underlying mutex use.
//
// NOTE(_): accessing elements AT their expiration time is, by its very nature, a race.
// If a timer has not expired, then its associated data is guaranteed to not have been pruned. The inverse is not guaranteed.
type Table[key_t comparable, value_t any] struct {
	mu sync.Mutex
	m  map[key_t]timedV[value_t]
}

// New returns an empty table, ready for use.
func New[key_t comparable, value_t any]() *Table[key_t, value_t] {
	return &Table[key_t, value_t]{
		m: make(map[key_t]timedV[value_t]),
	}
}

// Store saves the given k/v and sets them to expire after the given time.
// If a value was previously associated to this key, it will be overwritten and its timer reset.
func (tbl *Table[key_t, value_t]) Store(key key_t, value value_t, expire time.Duration) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	// stop the existing timer (if applicable)
	if prior, found := tbl.m[key]; found {
		prior.exp.Stop()
	}
	tbl.m[key] = timedV[value_t]{
		val: value,
		exp: time.AfterFunc(expire, func() {
			// if the time expires, remove ourself
			tbl.Delete(key)
		}),
	}
}

// Load fetches the value associated to the given key if available.
func (tbl *Table[key_t, value_t]) Load(key key_t) (value value_t, found bool) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	tVal, found := tbl.m[key]
	if !found {
		return value, false
	}
	return tVal.val, true
}

// Delete destroys a key in the map and stops its timer (if found).
// Ineffectual if key is not found.
func (tbl *Table[key_t, value_t]) Delete(key key_t) (found bool) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	tVal, found := tbl.m[key]
	if !found {
		return false
	}
	tVal.exp.Stop()
	delete(tbl.m, key)
	return true
}

// Refresh refreshes the given key (if it exists) with the given duration.
func (tbl *Table[key_t, value_t]) Refresh(key key_t, expire time.Duration) (found bool) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	tVal, found := tbl.m[key]
	if !found {
		return false
	}
	if alreadyExpired := !tVal.exp.Stop(); alreadyExpired {
		return false
	}
	tVal.exp.Reset(expire)
	return true
}

// Len returns the number of live elements in the table.
func (tbl *Table[key_t, value_t]) Len() int {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	return len(tbl.m)
}
