package intern

import (
	"hash/maphash"
	"slices"
)

// Seed is the per-table hash seed handed to [Value.Hash]. Each
// [TypedInterner] draws its own seed, so hashes are never comparable
// across tables or process runs.
type Seed = maphash.Seed

// Value is the capability set a type needs to be interned: hashing under
// a table seed, equality, and cheap logical duplication. A stored value
// must also be free of references the caller mutates afterward and safe
// for concurrent reads; the interner shares one copy between every
// holder of a token.
//
// Hash and Equal must agree: values that are Equal must hash identically
// under the same seed. When a type is probed through a borrowed form
// (such as []byte probing a Str table), the borrowed form's hash and
// equality must agree with the owned form's as well. The table does not
// detect a disagreement; it silently fails to deduplicate.
type Value[T any] interface {
	// Hash returns the value's hash under the given table seed.
	Hash(Seed) uint64

	// Equal reports whether the value equals another.
	Equal(T) bool

	// Clone returns a logical copy of the value. The copy need not be
	// deep, but it must not alias storage the caller may mutate.
	Clone() T
}

// Str is an internable string.
type Str string

// Hash implements [Value].
func (s Str) Hash(seed Seed) uint64 { return maphash.String(seed, string(s)) }

// Equal implements [Value].
func (s Str) Equal(o Str) bool { return s == o }

// Clone implements [Value]. Strings are immutable, so the value itself
// is its own copy.
func (s Str) Clone() Str { return s }

func (s Str) String() string { return string(s) }

// List is an internable sequence of tokens. Its hash and equality are
// defined over element identities, so two lists are equal exactly when
// they are elementwise token-equal. Comparing lists whose elements come
// from different tables panics, like any cross-table token comparison.
type List[T Value[T]] []Token[T]

// Hash implements [Value].
func (l List[T]) Hash(seed Seed) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	for _, t := range l {
		maphash.WriteComparable(&h, t.ID())
	}
	return h.Sum64()
}

// Equal implements [Value].
func (l List[T]) Equal(o List[T]) bool {
	if len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Clone implements [Value]. Element tokens are shared; only the slice
// header and backing array are copied.
func (l List[T]) Clone() List[T] { return slices.Clone(l) }
