package knn

import (
	"errors"
	"testing"

	"movierec/internal/catalog"
)

func newTestIndex(t *testing.T, items []catalog.Item, matrix [][]float64) *Index {
	t.Helper()
	c, err := catalog.New(items, matrix)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return NewIndex(c)
}

func abcIndex(t *testing.T) *Index {
	return newTestIndex(t,
		[]catalog.Item{
			{ID: 1, Title: "A", Tags: []string{"Action"}},
			{ID: 2, Title: "B", Tags: []string{"Drama"}},
			{ID: 3, Title: "C", Tags: []string{"Action", "Drama"}},
		},
		[][]float64{
			{1.0, 0.2, 0.7},
			{0.2, 1.0, 0.5},
			{0.7, 0.5, 1.0},
		},
	)
}

func titles(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNearestNeighborsExample(t *testing.T) {
	idx := abcIndex(t)

	got, err := idx.NearestNeighbors("A", 2)
	if err != nil {
		t.Fatalf("NearestNeighbors: %v", err)
	}
	if want := []string{"C", "B"}; !equal(titles(got), want) {
		t.Fatalf("got %v, want %v", titles(got), want)
	}
}

func TestNearestNeighborsLength(t *testing.T) {
	idx := abcIndex(t)

	for k := 0; k <= 5; k++ {
		got, err := idx.NearestNeighbors("B", k)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		want := k
		if want > 2 {
			want = 2
		}
		if len(got) != want {
			t.Fatalf("k=%d: len = %d, want %d", k, len(got), want)
		}
	}
}

func TestNearestNeighborsExcludesSelf(t *testing.T) {
	idx := abcIndex(t)

	for _, title := range []string{"A", "B", "C"} {
		got, err := idx.NearestNeighbors(title, 10)
		if err != nil {
			t.Fatalf("%s: %v", title, err)
		}
		for _, it := range got {
			if it.Title == title {
				t.Fatalf("%s appears in its own neighbors", title)
			}
		}
	}
}

func TestNeighborsTiesKeepCatalogOrder(t *testing.T) {
	idx := newTestIndex(t,
		[]catalog.Item{
			{ID: 10, Title: "Q"},
			{ID: 11, Title: "W"},
			{ID: 12, Title: "E"},
			{ID: 13, Title: "R"},
			{ID: 14, Title: "T"},
		},
		[][]float64{
			{1, 0.5, 0.9, 0.5, 0.5},
			{0.5, 1, 0, 0, 0},
			{0.9, 0, 1, 0, 0},
			{0.5, 0, 0, 1, 0},
			{0.5, 0, 0, 0, 1},
		},
	)

	got, err := idx.Neighbors("Q", 4)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}

	wantPos := []int{2, 1, 3, 4}
	for i, nb := range got {
		if nb.Position != wantPos[i] {
			t.Fatalf("position %d = %d, want %d (got %+v)", i, nb.Position, wantPos[i], got)
		}
		if i > 0 && nb.Similarity > got[i-1].Similarity {
			t.Fatalf("scores not non-increasing: %+v", got)
		}
	}
}

func TestNeighborsSelfNotMaximum(t *testing.T) {
	// la diagonal no tiene por qué ser el máximo; igual se excluye
	idx := newTestIndex(t,
		[]catalog.Item{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}},
		[][]float64{{0, 0.3}, {0.3, 0}},
	)

	got, err := idx.NearestNeighbors("A", 5)
	if err != nil {
		t.Fatalf("NearestNeighbors: %v", err)
	}
	if !equal(titles(got), []string{"B"}) {
		t.Fatalf("got %v, want [B]", titles(got))
	}
}

func TestNearestNeighborsErrors(t *testing.T) {
	idx := abcIndex(t)
	if _, err := idx.NearestNeighbors("Z", 3); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	noMatrix := newTestIndex(t, []catalog.Item{{ID: 1, Title: "A"}}, nil)
	if _, err := noMatrix.NearestNeighbors("A", 3); !errors.Is(err, catalog.ErrNoMatrix) {
		t.Fatalf("err = %v, want ErrNoMatrix", err)
	}
}

func TestTopK(t *testing.T) {
	list := []Neighbor{
		{Position: 0, Similarity: 0.1},
		{Position: 1, Similarity: 0.9},
		{Position: 2, Similarity: 0.9},
	}
	got := TopK(list, 2)
	if len(got) != 2 || got[0].Position != 1 || got[1].Position != 2 {
		t.Fatalf("TopK = %+v", got)
	}
}
