package fiber

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/loom/pkg/element"
)

// build links a tree shaped like:
//
//	0 root
//	├── 1 a
//	│   ├── 2 a1
//	│   └── 3 a2
//	│       └── 4 a2x
//	└── 5 b
//	    └── 6 b1
func build(t *testing.T) *Tree {
	t.Helper()
	tr := NewTree(1, nil)
	for i := 0; i < 7; i++ {
		_, f := tr.New()
		f.Type = element.TagType("n")
	}
	link := func(parent Handle, kids ...Handle) {
		tr.At(parent).Child = kids[0]
		for i, k := range kids {
			tr.At(k).Parent = parent
			if i+1 < len(kids) {
				tr.At(k).Sibling = kids[i+1]
			}
		}
	}
	link(0, 1, 5)
	link(1, 2, 3)
	link(3, 4)
	link(5, 6)
	return tr
}

func TestNextOrder(t *testing.T) {
	tr := build(t)

	var got []Handle
	for h := tr.Root(); h.Valid(); h = tr.Next(h) {
		got = append(got, h)
	}
	want := []Handle{0, 1, 2, 3, 4, 5, 6}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestNextWithinStaysInSubtree(t *testing.T) {
	tr := build(t)

	var got []Handle
	tr.Walk(1, func(h Handle, f *Fiber) bool {
		got = append(got, h)
		return true
	})
	if diff := cmp.Diff([]Handle{1, 2, 3, 4}, got); diff != "" {
		t.Errorf("subtree walk mismatch (-want +got):\n%s", diff)
	}

	got = nil
	tr.Walk(2, func(h Handle, f *Fiber) bool {
		got = append(got, h)
		return true
	})
	if diff := cmp.Diff([]Handle{2}, got); diff != "" {
		t.Errorf("leaf walk escaped via sibling:\n%s", diff)
	}
}

func TestWalkStops(t *testing.T) {
	tr := build(t)
	n := 0
	tr.Walk(0, func(Handle, *Fiber) bool {
		n++
		return n < 3
	})
	if n != 3 {
		t.Errorf("visited %d fibers, want 3", n)
	}
}

func TestNextInvalid(t *testing.T) {
	tr := build(t)
	if tr.Next(None) != None || tr.Next(99) != None {
		t.Error("Next on invalid handle should be None")
	}
	if NewTree(0, nil).Root() != None {
		t.Error("empty tree root should be None")
	}
}

func TestChildrenAndNodeAncestor(t *testing.T) {
	tr := build(t)
	if diff := cmp.Diff([]Handle{2, 3}, tr.Children(1)); diff != "" {
		t.Errorf("Children mismatch:\n%s", diff)
	}

	tr.At(0).Node = "container"
	if n, ok := tr.NodeAncestor(4); !ok || n != "container" {
		t.Errorf("NodeAncestor(4) = %v, %v", n, ok)
	}
	tr.At(3).Node = "a2"
	if n, _ := tr.NodeAncestor(4); n != "a2" {
		t.Errorf("NodeAncestor(4) = %v, want a2", n)
	}
	if _, ok := tr.NodeAncestor(0); ok {
		t.Error("root has no ancestor")
	}
}

func TestAlternateAndDetach(t *testing.T) {
	prev := build(t)
	next := NewTree(2, prev)
	h, f := next.New()
	f.Alternate = 5

	if got := next.Alternate(h); got != prev.At(5) {
		t.Errorf("Alternate = %v, want prev[5]", got)
	}
	next.Detach()
	if next.Alternate(h) != nil {
		t.Error("Alternate should not resolve after Detach")
	}
}

func TestHookFold(t *testing.T) {
	h := NewHook("state", 1)
	h.Enqueue(func(v any) any { return v.(int) + 1 })
	h.Enqueue(func(v any) any { return v.(int) * 10 })

	if h.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", h.Pending())
	}
	if got := h.Fold(); got != 20 {
		t.Errorf("Fold = %v, want 20 (FIFO order)", got)
	}
	if h.State != 1 {
		t.Error("Fold must not mutate State")
	}
}

func TestEffectString(t *testing.T) {
	for e, want := range map[Effect]string{NoEffect: "None", Placement: "Placement", Update: "Update", Deletion: "Deletion", Effect(42): "Unknown"} {
		if e.String() != want {
			t.Errorf("%d.String() = %q, want %q", e, e.String(), want)
		}
	}
}
