package intern_test

import (
	"runtime"
	"strconv"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/intern-all/intern"
)

func TestRegistry(t *testing.T) {
	t.Run("OneTablePerType", func(t *testing.T) {
		in := intern.New()
		t1 := intern.Table[intern.Str](in)
		t2 := intern.Table[intern.Str](in)
		if t1 != t2 {
			t.Error("Table returned two tables for the same type")
		}
	})

	t.Run("TableAndHelperAgree", func(t *testing.T) {
		in := intern.New()
		a := intern.Table[intern.Str](in).Intern("foo")
		b := intern.InternString(in, "foo")
		if !a.Equal(b) {
			t.Error("direct table interning and helper disagree")
		}
	})

	t.Run("BytesProbe", func(t *testing.T) {
		in := intern.New()
		a := intern.InternString(in, "foo")
		b := intern.InternBytes(in, []byte("foo"))
		if !a.Equal(b) {
			t.Error("byte probe and string interned to different tokens")
		}
	})

	t.Run("ListForms", func(t *testing.T) {
		in := intern.New()
		v1 := intern.InternList(in, []intern.Str{"a", "b", "c"})
		v2 := intern.InternStrings(in, []string{"a", "b", "c"})
		v3 := intern.InternTokens(in, []intern.Token[intern.Str]{
			intern.InternString(in, "a"),
			intern.InternString(in, "b"),
			intern.InternString(in, "c"),
		})
		if !v1.Equal(v2) || !v1.Equal(v3) {
			t.Error("the three list-interning forms disagree")
		}
	})

	t.Run("Sizes", func(t *testing.T) {
		in := intern.New()
		intern.InternString(in, "a")
		intern.InternStrings(in, []string{"a", "b"})
		sizes := in.Sizes()
		if len(sizes) != 2 {
			t.Fatalf("Sizes() has %d types, want 2 (got %v)", len(sizes), sizes)
		}
	})
}

func TestSweepFor(t *testing.T) {
	in := intern.New()

	if removed := intern.SweepFor[intern.Str](in); removed != 0 {
		t.Errorf("SweepFor on an unused type removed %d, want 0", removed)
	}

	keepList := intern.InternStrings(in, []string{"x", "y"})
	for i := 0; i < 5; i++ {
		intern.InternString(in, "churn-"+strconv.Itoa(i))
	}
	runtime.GC()
	runtime.GC()

	// Only the Str table is swept; the list table keeps its dead-free
	// entries and the churned Str entries stay until their own sweep.
	if removed := intern.SweepFor[intern.List[intern.Str]](in); removed != 0 {
		t.Errorf("list sweep removed %d entries, want 0", removed)
	}
	if removed := intern.SweepFor[intern.Str](in); removed != 5 {
		t.Errorf("Str sweep removed %d entries, want 5", removed)
	}
	runtime.KeepAlive(keepList)
}

func TestConcurrentIntern(t *testing.T) {
	const goroutines = 8
	const perG = 500

	in := intern.New()
	var shared [goroutines]intern.Token[intern.Str]

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < perG; j++ {
				intern.InternString(in, "g"+strconv.Itoa(i)+"-"+strconv.Itoa(j))
				intern.InternStrings(in, []string{"shared", strconv.Itoa(j % 7)})
			}
			shared[i] = intern.InternString(in, "shared")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	for i := 1; i < goroutines; i++ {
		if !shared[0].Equal(shared[i]) {
			t.Fatalf("goroutine %d interned %q to a different token", i, "shared")
		}
	}
}

func TestConcurrentSweepAndIntern(t *testing.T) {
	in := intern.New()
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			for j := 0; j < 200; j++ {
				tok := intern.InternString(in, "stable-"+strconv.Itoa(j%17))
				if got := tok.Value(); got != intern.Str("stable-"+strconv.Itoa(j%17)) {
					t.Errorf("token dereferences to %q", got)
				}
				intern.InternString(in, "churn-"+strconv.Itoa(i)+"-"+strconv.Itoa(j))
			}
			return nil
		})
	}
	g.Go(func() error {
		for j := 0; j < 50; j++ {
			runtime.GC()
			in.Sweep()
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	// Whatever the sweeps removed, live interning stayed idempotent.
	a := intern.InternString(in, "post")
	if !a.Equal(intern.InternString(in, "post")) {
		t.Error("interner broken after concurrent sweeps")
	}
}
