package view

import (
	"testing"
)

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

type countingPicker struct {
	calls int
}

func (c *countingPicker) IntN(n int) int {
	c.calls++
	return n - 1
}

func TestFooterIndexInRange(t *testing.T) {
	flavors := []string{"a", "b", "c", "d", "e"}
	seen := make(map[int]bool)

	for range 2000 {
		f := NewFooter("Site", flavors, nil)
		i := f.Index()
		if i < 0 || i >= len(flavors) {
			t.Fatalf("Index() = %d, out of [0, %d)", i, len(flavors))
		}
		seen[i] = true
	}

	if len(seen) != len(flavors) {
		t.Errorf("2000 mounts hit %d of %d indices", len(seen), len(flavors))
	}
}

func TestFooterSingleFlavor(t *testing.T) {
	for range 100 {
		if i := NewFooter("Site", []string{"only"}, NewLockedRand(42)).Index(); i != 0 {
			t.Fatalf("Index() = %d, want 0", i)
		}
	}
}

func TestFooterStableAcrossRenders(t *testing.T) {
	picker := &countingPicker{}
	f := NewFooter("Site", []string{"a", "b", "c"}, picker)

	first, err := Render(f)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for range 10 {
		f.Mount()
		again, err := Render(f)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if again != first {
			t.Fatal("footer output changed between renders")
		}
	}

	if picker.calls != 1 {
		t.Errorf("picker called %d times, want 1", picker.calls)
	}
	if f.Flavor() != "c" {
		t.Errorf("Flavor() = %q, want c", f.Flavor())
	}
}

func TestFooterEmptyFlavors(t *testing.T) {
	picker := &countingPicker{}
	f := NewFooter("Site", nil, picker)

	if f.Index() != -1 || f.HasFlavor() || f.Flavor() != "" {
		t.Errorf("Index() = %d, HasFlavor() = %v, want -1 and false", f.Index(), f.HasFlavor())
	}
	if picker.calls != 0 {
		t.Errorf("picker called %d times for an empty list", picker.calls)
	}

	doc := renderNode(t, f)
	if n := len(byClass(doc, "site-footer-flavor")); n != 0 {
		t.Errorf("rendered %d flavor lines, want none", n)
	}
}

func TestFooterRendersPickedFlavor(t *testing.T) {
	doc := renderNode(t, NewFooter("Site", []string{"first", "second"}, fixedPicker(1)))

	lines := byClass(doc, "site-footer-flavor")
	if len(lines) != 1 || text(lines[0]) != "second" {
		t.Fatalf("flavor lines = %d, want one reading %q", len(lines), "second")
	}

	var licensed bool
	for _, a := range byTag(doc, "a") {
		if href, _ := attr(a, "href"); href == LicenseURL {
			licensed = true
		}
	}
	if !licensed {
		t.Error("footer has no licence link")
	}
}
