package intern_test

import (
	"runtime"
	"strconv"
	"testing"

	"github.com/intern-all/intern"
)

func TestTypedInterner(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		tab := intern.NewTyped[intern.Str]()
		a := tab.Intern("foo")
		b := tab.Intern("foo")
		if !a.Equal(b) {
			t.Error("interning the same value twice returned different tokens")
		}
		if got := tab.Size(); got != 1 {
			t.Errorf("Size() = %d, want 1", got)
		}
	})

	t.Run("IndependentTables", func(t *testing.T) {
		t1 := intern.NewTyped[intern.Str]()
		t2 := intern.NewTyped[intern.Str]()
		a := t1.Intern("foo")
		b := t2.Intern("foo")
		mustPanic(t, "tokens must come from the same interner", func() { a.Equal(b) })
	})

	t.Run("OwnedCopy", func(t *testing.T) {
		tab := intern.NewTyped[intern.List[intern.Str]]()
		elems := intern.NewTyped[intern.Str]()
		probe := intern.List[intern.Str]{elems.Intern("a"), elems.Intern("b")}
		tok := tab.Intern(probe)
		probe[0] = elems.Intern("mutated")
		if got := intern.Resolve(tok); got[0] != "a" {
			t.Errorf("stored list aliases the caller's slice: got %q", got[0])
		}
	})
}

func TestSweep(t *testing.T) {
	in := intern.New()
	keep := intern.InternString(in, "keep")
	for i := 0; i < 8; i++ {
		intern.InternString(in, "churn-"+strconv.Itoa(i))
	}
	tab := intern.Table[intern.Str](in)
	if got := tab.Size(); got != 9 {
		t.Fatalf("Size() before sweep = %d, want 9", got)
	}

	runtime.GC()
	runtime.GC()

	if removed := in.Sweep(); removed != 8 {
		t.Errorf("Sweep() removed %d entries, want 8", removed)
	}
	if got := tab.Size(); got != 1 {
		t.Errorf("Size() after sweep = %d, want 1", got)
	}
	if again := intern.InternString(in, "keep"); !again.Equal(keep) {
		t.Error("surviving entry was disturbed by the sweep")
	}
	if removed := in.Sweep(); removed != 0 {
		t.Errorf("second Sweep() removed %d entries, want 0", removed)
	}
	runtime.KeepAlive(keep)
}

func TestReinternAfterSweep(t *testing.T) {
	in := intern.New()
	intern.InternString(in, "foo")

	runtime.GC()
	runtime.GC()
	if removed := intern.SweepFor[intern.Str](in); removed != 1 {
		t.Fatalf("SweepFor removed %d entries, want 1", removed)
	}

	// A fresh slot may or may not land on the old address; all that is
	// promised is that the fresh token is idempotent again.
	fresh := intern.InternString(in, "foo")
	if again := intern.InternString(in, "foo"); !again.Equal(fresh) {
		t.Error("re-interned value is not idempotent")
	}
	if got := intern.Table[intern.Str](in).Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestDeadEntryRepairedByIntern(t *testing.T) {
	in := intern.New()
	intern.InternString(in, "phoenix")
	runtime.GC()
	runtime.GC()

	// No sweep: interning the same content walks past the dead entry
	// and mints a fresh token.
	fresh := intern.InternString(in, "phoenix")
	if got := fresh.Value(); got != "phoenix" {
		t.Fatalf("Value() = %q, want %q", got, "phoenix")
	}
	if again := intern.InternString(in, "phoenix"); !again.Equal(fresh) {
		t.Error("token minted over a dead entry is not idempotent")
	}
}

func BenchmarkInternHit(b *testing.B) {
	in := intern.New()
	tok := intern.InternString(in, "benchmark")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !intern.InternString(in, "benchmark").Equal(tok) {
			b.Fatal("hit returned a different token")
		}
	}
}

func BenchmarkTokenEqual(b *testing.B) {
	in := intern.New()
	x := intern.InternString(in, "x")
	y := intern.InternString(in, "y")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if x.Equal(y) {
			b.Fatal("distinct tokens compared equal")
		}
	}
}
