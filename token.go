package intern

import (
	"fmt"
	"unsafe"
	"weak"
)

// Token is a shared handle to an interned value. Equality, ordering, and
// hashing are defined by the identity of the referenced value, never by
// its content, so comparisons cost a pointer comparison regardless of
// how large the value is.
//
// A token strongly owns both its value and the [TypedInterner] that
// issued it; both stay alive for as long as the token exists, even if
// the [Interner] the table belongs to is dropped.
//
// Token is a comparable struct: it can be used directly as a map key,
// and == compares identity. Note that == between tokens from different
// tables silently reports false, while the comparison methods panic;
// prefer the methods anywhere domain mixing is conceivable.
//
// The zero Token references nothing. Interning always returns a
// non-zero token; the zero value only arises from uninitialized
// variables and failed [WeakToken.Upgrade] calls.
type Token[T Value[T]] struct {
	data  *T
	table *TypedInterner[T]
}

// ID returns the token's identity: a nonzero, process-lifetime-unique
// integer derived from the value's storage address. Equal tokens have
// equal IDs; the ID of the zero token is 0. IDs must never be persisted
// or compared across processes.
func (t Token[T]) ID() uintptr { return uintptr(unsafe.Pointer(t.data)) }

// IsZero reports whether t is the zero token.
func (t Token[T]) IsZero() bool { return t.data == nil }

// Table returns the [TypedInterner] that issued this token.
func (t Token[T]) Table() *TypedInterner[T] { return t.table }

// SameTable reports whether both tokens were issued by the same table,
// i.e. whether comparing them is legal.
func (t Token[T]) SameTable(o Token[T]) bool { return t.table == o.table }

func (t Token[T]) mustShareTable(o Token[T]) {
	if t.table != o.table {
		panic("intern: tokens must come from the same interner")
	}
}

// Equal reports whether both tokens reference the same interned value.
// It panics if the tokens were issued by different tables: a cross-table
// comparison is a domain-mixing bug in the caller, and answering false
// would mask it.
func (t Token[T]) Equal(o Token[T]) bool {
	t.mustShareTable(o)
	return t.data == o.data
}

// Compare totally orders tokens from one table by identity. Like
// [Token.Equal] it panics on a cross-table comparison. The order carries
// no meaning beyond being total and stable for the life of the process.
func (t Token[T]) Compare(o Token[T]) int {
	t.mustShareTable(o)
	switch a, b := t.ID(), o.ID(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Deref returns a pointer to the interned value. The value is shared by
// every holder of an equal token and must not be mutated.
func (t Token[T]) Deref() *T { return t.data }

// Value returns a logical copy of the interned value.
func (t Token[T]) Value() T { return (*t.data).Clone() }

// Weak returns a weak handle observing this token's value and table
// without keeping either alive.
func (t Token[T]) Weak() WeakToken[T] {
	return WeakToken[T]{data: weak.Make(t.data), table: weak.Make(t.table)}
}

func (t Token[T]) String() string {
	if t.IsZero() {
		return "<zero token>"
	}
	return fmt.Sprintf("%v", *t.data)
}

// WeakToken observes a token's value and owning table without extending
// the lifetime of either. It is how tables track their entries, and how
// callers detect reclaimable values without pinning them.
type WeakToken[T Value[T]] struct {
	data  weak.Pointer[T]
	table weak.Pointer[TypedInterner[T]]
}

// Upgrade returns a live token if both the value and its table are still
// reachable through at least one strong reference. Absence is not an
// error: it reports that the entry has died.
//
// A value becomes unreachable here only after the garbage collector has
// reclaimed it, which may lag the drop of its last token until the next
// collection cycle.
func (w WeakToken[T]) Upgrade() (Token[T], bool) {
	data := w.data.Value()
	if data == nil {
		return Token[T]{}, false
	}
	table := w.table.Value()
	if table == nil {
		return Token[T]{}, false
	}
	return Token[T]{data: data, table: table}, true
}

// Resolve returns an owned slice of the fully dereferenced elements of
// an interned list. O(n); allocates.
func Resolve[T Value[T]](tok Token[List[T]]) []T {
	elems := *tok.data
	out := make([]T, len(elems))
	for i, e := range elems {
		out[i] = e.Value()
	}
	return out
}

// Append re-interns tok's elements followed by suffix in tok's own
// table. Because the result is interned, any elementwise-equal
// concatenation collapses to the same outer token.
func Append[T Value[T]](tok Token[List[T]], suffix ...Token[T]) Token[List[T]] {
	elems := *tok.data
	cat := make(List[T], 0, len(elems)+len(suffix))
	cat = append(cat, elems...)
	cat = append(cat, suffix...)
	return tok.table.Intern(cat)
}

// Prepend re-interns prefix followed by tok's elements in tok's own
// table. See [Append].
func Prepend[T Value[T]](tok Token[List[T]], prefix ...Token[T]) Token[List[T]] {
	elems := *tok.data
	cat := make(List[T], 0, len(prefix)+len(elems))
	cat = append(cat, prefix...)
	cat = append(cat, elems...)
	return tok.table.Intern(cat)
}
