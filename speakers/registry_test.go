package speakers

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestRegisterIsStable(t *testing.T) {
	r, err := New([]string{"v1", "v2", "v3"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	labels := []string{"Alice", "Bob", "Alice", "Carol", "Bob", "Alice", "Dave", "Eve"}
	seen := map[string]string{}
	for _, l := range labels {
		v := r.Register(l)
		if prev, ok := seen[l]; ok && prev != v {
			t.Errorf("Register(%q) = %q; previously %q", l, v, prev)
		}
		seen[l] = v
	}
	if r.Len() != 5 {
		t.Errorf("Len = %d; want 5", r.Len())
	}

	distinct := map[string]struct{}{}
	for _, v := range seen {
		distinct[v] = struct{}{}
	}
	if len(distinct) > len(seen) {
		t.Errorf("%d distinct voices for %d labels", len(distinct), len(seen))
	}
}

func TestRegisterRoundRobin(t *testing.T) {
	r, err := New([]string{"v1", "v2", "v3"}, WithOffset(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []Speaker{
		{Label: "A", Voice: "v2"},
		{Label: "B", Voice: "v3"},
		{Label: "C", Voice: "v1"},
		{Label: "D", Voice: "v2"},
	}
	for _, s := range want {
		r.Register(s.Label)
	}
	got := r.Speakers()
	if len(got) != len(want) {
		t.Fatalf("Speakers() has %d entries; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Speakers()[%d] = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func TestSingleVoicePool(t *testing.T) {
	r, err := New([]string{"only"}, WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, l := range []string{"A", "B", "C"} {
		if v := r.Register(l); v != "only" {
			t.Errorf("Register(%q) = %q; want only", l, v)
		}
	}
}

func TestNegativeOffset(t *testing.T) {
	r, err := New([]string{"v1", "v2"}, WithOffset(-1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v := r.Register("A"); v != "v2" {
		t.Errorf("Register(A) = %q; want v2", v)
	}
}

func TestEmptyPool(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyPool) {
		t.Errorf("New(nil) error = %v; want ErrEmptyPool", err)
	}
}

func TestVoiceLookup(t *testing.T) {
	r, _ := New([]string{"v1", "v2"})
	if _, ok := r.Voice("A"); ok {
		t.Error("Voice(A) found before registration")
	}
	v := r.Register("A")
	if got, ok := r.Voice("A"); !ok || got != v {
		t.Errorf("Voice(A) = %q, %v; want %q, true", got, ok, v)
	}
}
