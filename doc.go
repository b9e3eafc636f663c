// Package intern provides a type-agnostic value interner for Go applications.
//
// # Overview
//
// intern deduplicates immutable values so that equal values share one
// storage slot and callers hold a cheap [Token] handle whose equality,
// ordering, and hashing reduce to pointer-identity comparison. It is
// aimed at consumers such as compilers and symbol tables that build
// structurally-equal data over and over (strings, paths, lists of
// tokens) and need O(1) equality afterward. It provides:
//
//   - A clean, generic Go API over an open set of value types
//   - Identity-based tokens that work as map keys
//   - Explicit, deterministic reclamation of dead entries via [Interner.Sweep]
//   - A process-wide default interner with zero setup
//
// # Quick Start
//
//	import "github.com/intern-all/intern"
//
//	func main() {
//	    in := intern.New()
//
//	    a := intern.InternString(in, "foo")
//	    b := intern.InternString(in, "foo")
//	    fmt.Println(a.Equal(b)) // true, a single pointer comparison
//
//	    // Lists of tokens deduplicate as values in their own right.
//	    l1 := intern.InternStrings(in, []string{"a", "b"})
//	    l2 := intern.InternStrings(in, []string{"a", "b"})
//	    fmt.Println(l1.Equal(l2)) // true
//	}
//
// # Tokens
//
// A [Token] strongly owns both its value and the table that produced it,
// so a token stays valid even after the [Interner] it came from is gone.
// Tokens from the same table compare by identity; comparing tokens from
// different tables is always a caller bug and panics rather than
// returning an arbitrary answer. A [WeakToken] observes a token's value
// without keeping it alive.
//
// # Sweeping
//
// Tables hold only weak references to interned values. Once every token
// for a value is dropped and the garbage collector has reclaimed it, the
// table entry is dead. Dead entries are not removed automatically: call
// [Interner.Sweep] or [SweepFor] when a workload has churned through many
// values. Between sweeps, [TypedInterner.Size] is an upper bound on live
// unique values, not an exact count.
//
// # The default interner
//
// Free functions such as [I], [IV], and [Sweep] operate on a lazily
// created process-wide [Interner]. Callers that need an isolated identity
// domain, for example in tests, construct their own instance with [New];
// tokens from different instances are never comparable.
package intern
