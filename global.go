package intern

import (
	"sync"
	"sync/atomic"
)

// defaultInterner holds the process-wide default instance. It is set at
// most once: either by the first Default call or by a successful
// SetDefault beforehand.
var defaultInterner atomic.Pointer[Interner]

// Default returns the process-wide default [Interner], creating it on
// first use. Concurrent first callers race to construct it; exactly one
// wins and every caller observes the same instance forever after.
func Default() *Interner {
	if in := defaultInterner.Load(); in != nil {
		return in
	}
	defaultInterner.CompareAndSwap(nil, New())
	return defaultInterner.Load()
}

// SetDefault substitutes in as the process-wide default and reports
// whether the substitution took effect. It succeeds only if called
// strictly before the first use of [Default]; once the default exists
// it is never replaced, and SetDefault returns false without mutating
// anything.
func SetDefault(in *Interner) bool {
	if in == nil {
		return false
	}
	return defaultInterner.CompareAndSwap(nil, in)
}

// Make interns v in the default interner. The name mirrors the standard
// library's unique.Make; unlike unique, the returned handle is tied to
// an explicit identity domain and reclaimed only by [Sweep].
func Make[T Value[T]](v T) Token[T] { return Intern(Default(), v) }

// I interns a string literal or value in the default interner. For a
// fixed literal on a hot path, prefer a [Lit] declared once at the call
// site.
func I(s string) Token[Str] { return InternString(Default(), s) }

// IB interns the string content of b in the default interner without
// allocating on a hit. See [InternBytes].
func IB(b []byte) Token[Str] { return InternBytes(Default(), b) }

// IV interns a list and its elements in the default interner. See
// [InternList].
func IV[T Value[T]](vs []T) Token[List[T]] { return InternList(Default(), vs) }

// IBV interns a list of plain strings in the default interner. See
// [InternStrings].
func IBV(ss []string) Token[List[Str]] { return InternStrings(Default(), ss) }

// IT interns a sequence of already-interned elements in the default
// interner. See [InternTokens].
func IT[T Value[T]](toks ...Token[T]) Token[List[T]] { return InternTokens(Default(), toks) }

// Sweep sweeps every table of the default interner.
func Sweep() int { return Default().Sweep() }

// SweepT sweeps only T's table in the default interner. See [SweepFor].
func SweepT[T Value[T]]() int { return SweepFor[T](Default()) }

// Lit is a per-call-site memo cell for a fixed value: the first Get
// interns through [Default], and every later Get serves the cached
// token with a single atomic load, skipping registry and table locks
// entirely. Declare one as a package-level variable next to its call
// site:
//
//	var kwFunc = intern.StrLit("func")
//
//	func classify(tok intern.Token[intern.Str]) bool {
//	    return tok.Equal(kwFunc.Get())
//	}
//
// The cell's type parameter pins the cached token's type at compile
// time, so a call site can never observe a token of the wrong type.
type Lit[T Value[T]] struct {
	once sync.Once
	fill func(*Interner) Token[T]
	tok  Token[T]
}

// NewLit creates a memo cell whose first Get runs fill against the
// default interner.
func NewLit[T Value[T]](fill func(*Interner) Token[T]) *Lit[T] {
	return &Lit[T]{fill: fill}
}

// StrLit creates a memo cell for a fixed string.
func StrLit(s string) *Lit[Str] {
	return NewLit(func(in *Interner) Token[Str] { return InternString(in, s) })
}

// Get returns the cached token, interning it on the first call.
func (l *Lit[T]) Get() Token[T] {
	l.once.Do(func() {
		l.tok = l.fill(Default())
		l.fill = nil
	})
	return l.tok
}
