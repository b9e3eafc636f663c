package intern

import (
	"hash/maphash"
	"sync"
)

// TypedInterner is a deduplication table for a single value type: it
// guarantees at most one storage slot per distinct equal value. Most
// callers want an [Interner], which manages one TypedInterner per type;
// a standalone table is useful when only one type is ever interned and
// the registry indirection is unwanted.
//
// The table holds its entries weakly. Entries whose value has been
// collected are dead; they are repaired in place when an intern call
// walks past them and removed in bulk by [TypedInterner.Sweep].
type TypedInterner[T Value[T]] struct {
	mu      sync.Mutex
	seed    maphash.Seed
	buckets map[uint64][]WeakToken[T]
	count   int
}

// NewTyped creates a fresh table with its own hash seed and identity
// domain. Tokens issued by different tables are never comparable.
func NewTyped[T Value[T]]() *TypedInterner[T] {
	return &TypedInterner[T]{
		seed:    maphash.MakeSeed(),
		buckets: make(map[uint64][]WeakToken[T]),
	}
}

// Intern deduplicates v, returning the token for the value equal to it.
// A live hit returns the existing token; a miss, or a hit on a dead
// entry, stores a clone of v in a fresh slot and returns a new token.
//
// The whole operation runs under the table's exclusive lock. There is no
// read-only fast path: even a hit may need to repair a dead entry. The
// assumption is that a value is interned once and then compared many
// times through its token, not re-interned from many goroutines in a
// hot loop; use [Lit] for the latter.
func (ti *TypedInterner[T]) Intern(v T) Token[T] {
	return ti.intern(v.Hash(ti.seed), func(p *T) bool { return v.Equal(*p) }, v.Clone)
}

// intern is the single critical section behind every probe form: walk
// the bucket for sum, dropping dead entries on the way, and return the
// first live entry matching eq; otherwise store owned() in a new slot.
func (ti *TypedInterner[T]) intern(sum uint64, eq func(*T) bool, owned func() T) Token[T] {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	bucket := ti.buckets[sum]
	kept := bucket[:0]
	var found Token[T]
	ok := false
	for _, wk := range bucket {
		tok, live := wk.Upgrade()
		if !live {
			ti.count--
			continue
		}
		if !ok && eq(tok.data) {
			found, ok = tok, true
		}
		kept = append(kept, wk)
	}
	if !ok {
		slot := new(T)
		*slot = owned()
		found = Token[T]{data: slot, table: ti}
		kept = append(kept, found.Weak())
		ti.count++
	}
	if len(kept) == 0 {
		delete(ti.buckets, sum)
	} else {
		ti.buckets[sum] = kept
	}
	return found
}

// Sweep removes every entry whose value has been collected and returns
// the number removed. Live entries are untouched. O(table size).
//
// A value's entry becomes sweepable only after the garbage collector
// has reclaimed the value, which may lag the drop of its last token;
// run the collector first when a sweep must observe recent drops.
func (ti *TypedInterner[T]) Sweep() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	removed := 0
	for sum, bucket := range ti.buckets {
		kept := bucket[:0]
		for _, wk := range bucket {
			if _, live := wk.Upgrade(); live {
				kept = append(kept, wk)
			} else {
				removed++
			}
		}
		if len(kept) == 0 {
			delete(ti.buckets, sum)
		} else {
			ti.buckets[sum] = kept
		}
	}
	ti.count -= removed
	return removed
}

// Size returns the current entry count: an upper bound on live unique
// values, exact only immediately after a sweep.
func (ti *TypedInterner[T]) Size() int {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return ti.count
}
