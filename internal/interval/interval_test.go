package interval

import "testing"

func TestMerge(t *testing.T) {
	t.Run("overlapping intervals coalesce", func(t *testing.T) {
		got := Merge([]Interval{{540, 660}, {600, 720}})
		if len(got) != 1 || got[0] != (Interval{540, 720}) {
			t.Fatalf("expected [{540 720}], got %v", got)
		}
	})

	t.Run("touching intervals merge", func(t *testing.T) {
		got := Merge([]Interval{{540, 600}, {600, 660}})
		if len(got) != 1 || got[0] != (Interval{540, 660}) {
			t.Fatalf("expected [{540 660}], got %v", got)
		}
	})

	t.Run("disjoint intervals stay separate", func(t *testing.T) {
		got := Merge([]Interval{{600, 660}, {100, 200}})
		if len(got) != 2 {
			t.Fatalf("expected 2 intervals, got %v", got)
		}
		if got[0] != (Interval{100, 200}) || got[1] != (Interval{600, 660}) {
			t.Errorf("expected sorted output, got %v", got)
		}
	})

	t.Run("contained interval is absorbed", func(t *testing.T) {
		got := Merge([]Interval{{0, 500}, {100, 200}})
		if len(got) != 1 || got[0] != (Interval{0, 500}) {
			t.Fatalf("expected [{0 500}], got %v", got)
		}
	})

	t.Run("empty and inverted inputs drop out", func(t *testing.T) {
		got := Merge([]Interval{{300, 300}, {400, 350}})
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestClip(t *testing.T) {
	if iv, ok := Clip(Interval{500, 1100}, 390, 1000); !ok || iv != (Interval{500, 1000}) {
		t.Errorf("clip inside window: got %v ok=%v", iv, ok)
	}
	if _, ok := Clip(Interval{0, 300}, 390, 1000); ok {
		t.Error("interval fully outside window should clip to nothing")
	}
	if _, ok := Clip(Interval{390, 390}, 0, 1440); ok {
		t.Error("zero-length interval should clip to nothing")
	}
}

func TestTotalLen(t *testing.T) {
	merged := Merge([]Interval{{540, 660}, {600, 720}, {900, 960}})
	if got := TotalLen(merged); got != 240 {
		t.Errorf("expected 240 minutes, got %d", got)
	}
}
