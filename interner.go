package intern

import (
	"fmt"
	"hash/maphash"
	"reflect"
	"sync"
)

// anyTable is the narrow type-erased view of a [TypedInterner] the
// registry needs: sweeping and occupancy. Recovering the concrete table
// goes through a checked assertion in [Table], guarded by the same
// runtime type identity used as the registry key.
type anyTable interface {
	Sweep() int
	Size() int
}

// Interner is a type-erased collection of [TypedInterner] tables, one
// per concrete stored type, created lazily on first use. Each Interner
// is an independent identity domain: tokens from different instances
// are never comparable.
//
// All methods are safe for concurrent use. The registry's own lock
// guards only table resolution and creation; interning itself happens
// under the per-type table lock, so work on distinct types never
// contends.
type Interner struct {
	mu     sync.Mutex
	tables map[reflect.Type]anyTable
}

// New creates an empty Interner with a fresh identity domain.
func New() *Interner {
	return &Interner{tables: make(map[reflect.Type]anyTable)}
}

// Table returns in's deduplication table for T, creating it on first
// use. The token a value interns to is the same whether it was interned
// through the returned table or through the package-level helpers on in.
func Table[T Value[T]](in *Interner) *TypedInterner[T] {
	key := reflect.TypeFor[T]()
	in.mu.Lock()
	defer in.mu.Unlock()
	if t, ok := in.tables[key]; ok {
		tab, ok := t.(*TypedInterner[T])
		if !ok {
			// Unreachable: entries are only ever stored under their own
			// type's identity.
			panic(fmt.Sprintf("intern: registry entry for %v holds a table of the wrong type", key))
		}
		return tab
	}
	tab := NewTyped[T]()
	in.tables[key] = tab
	return tab
}

// Intern deduplicates v in in's table for T. See [TypedInterner.Intern].
func Intern[T Value[T]](in *Interner, v T) Token[T] {
	return Table[T](in).Intern(v)
}

// InternString interns s as a [Str].
func InternString(in *Interner, s string) Token[Str] {
	return Intern(in, Str(s))
}

// InternBytes interns the string content of b, probing the [Str] table
// with the bytes directly: the probe is hashed and compared without
// conversion, and a string is allocated only on a miss.
func InternBytes(in *Interner, b []byte) Token[Str] {
	ti := Table[Str](in)
	return ti.intern(maphash.Bytes(ti.seed, b),
		func(p *Str) bool { return string(*p) == string(b) },
		func() Str { return Str(b) })
}

// InternTokens interns a sequence of already-interned elements as a
// value in its own right, probing the [List] table with the slice; the
// slice is cloned only on a miss. Two elementwise-equal sequences
// collapse to one outer token, giving O(1) equality for whole lists.
func InternTokens[T Value[T]](in *Interner, toks []Token[T]) Token[List[T]] {
	ti := Table[List[T]](in)
	probe := List[T](toks)
	return ti.intern(probe.Hash(ti.seed),
		func(p *List[T]) bool { return probe.Equal(*p) },
		probe.Clone)
}

// InternList interns every element of vs, then the resulting sequence
// of tokens. See [InternTokens].
func InternList[T Value[T]](in *Interner, vs []T) Token[List[T]] {
	toks := make(List[T], len(vs))
	for i, v := range vs {
		toks[i] = Intern(in, v)
	}
	return InternTokens(in, toks)
}

// InternStrings interns every string of ss as a [Str], then the
// resulting sequence of tokens. See [InternTokens].
func InternStrings(in *Interner, ss []string) Token[List[Str]] {
	toks := make(List[Str], len(ss))
	for i, s := range ss {
		toks[i] = InternString(in, s)
	}
	return InternTokens(in, toks)
}

// SweepFor sweeps only T's table, returning the number of dead entries
// removed, or 0 if T was never interned through in. Cheaper than
// [Interner.Sweep] when one type churned and the others are large.
func SweepFor[T Value[T]](in *Interner) int {
	key := reflect.TypeFor[T]()
	in.mu.Lock()
	t, ok := in.tables[key]
	in.mu.Unlock()
	if !ok {
		return 0
	}
	return t.Sweep()
}

// Sweep sweeps every table in the registry and returns the total number
// of dead entries removed.
func (in *Interner) Sweep() int {
	total := 0
	for _, t := range in.snapshot() {
		total += t.Sweep()
	}
	return total
}

// Sizes returns a snapshot of per-type entry counts, keyed by type
// name. Counts are upper bounds on live uniques, like
// [TypedInterner.Size].
func (in *Interner) Sizes() map[string]int {
	in.mu.Lock()
	keyed := make(map[string]anyTable, len(in.tables))
	for key, t := range in.tables {
		keyed[key.String()] = t
	}
	in.mu.Unlock()

	sizes := make(map[string]int, len(keyed))
	for name, t := range keyed {
		sizes[name] = t.Size()
	}
	return sizes
}

// snapshot copies the table list out from under the registry lock, so
// per-table locks are never taken while it is held.
func (in *Interner) snapshot() []anyTable {
	in.mu.Lock()
	defer in.mu.Unlock()
	tabs := make([]anyTable, 0, len(in.tables))
	for _, t := range in.tables {
		tabs = append(tabs, t)
	}
	return tabs
}
