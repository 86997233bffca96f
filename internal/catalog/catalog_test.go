package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleItems() []Item {
	return []Item{
		{ID: 1, Title: "A", Tags: []string{"Action"}},
		{ID: 2, Title: "B", Tags: []string{"Drama"}},
		{ID: 3, Title: "C", Tags: []string{"Action", "Drama"}},
	}
}

func sampleMatrix() [][]float64 {
	return [][]float64{
		{1.0, 0.2, 0.7},
		{0.2, 1.0, 0.5},
		{0.7, 0.5, 1.0},
	}
}

func TestNewRejectsMisalignedMatrix(t *testing.T) {
	tests := []struct {
		name   string
		matrix [][]float64
	}{
		{"too few rows", [][]float64{{1, 0, 0}, {0, 1, 0}}},
		{"short row", [][]float64{{1, 0, 0}, {0, 1}, {0, 0, 1}}},
		{"too many rows", [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(sampleItems(), tt.matrix)
			if !errors.Is(err, ErrMisaligned) {
				t.Fatalf("err = %v, want ErrMisaligned", err)
			}
		})
	}
}

func TestNewRejectsNonFiniteScores(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"nan", "1,0.1,NaN\n0.1,1,0.5\n0.9,0.5,1\n"},
		{"positive inf", "1,+Inf,0.7\n0.2,1,0.5\n0.7,0.5,1\n"},
		{"negative inf", "1,0.2,0.7\n0.2,1,0.5\n0.7,-Inf,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matrix, err := ReadMatrix(strings.NewReader(tt.csv))
			if err != nil {
				t.Fatalf("ReadMatrix: %v", err)
			}
			if _, err := New(sampleItems(), matrix); !errors.Is(err, ErrInvalidScore) {
				t.Fatalf("err = %v, want ErrInvalidScore", err)
			}
		})
	}

	m := sampleMatrix()
	m[1][2] = math.NaN()
	if _, err := New(sampleItems(), m); !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("err = %v, want ErrInvalidScore", err)
	}
}

func TestNewWithoutMatrix(t *testing.T) {
	c, err := New(sampleItems(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.HasMatrix() {
		t.Fatal("HasMatrix = true, want false")
	}
	if _, err := c.Row(0); !errors.Is(err, ErrNoMatrix) {
		t.Fatalf("Row err = %v, want ErrNoMatrix", err)
	}
}

func TestIndexOfFirstOccurrence(t *testing.T) {
	items := append(sampleItems(), Item{ID: 4, Title: "B"})
	c, err := New(items, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	i, err := c.IndexOf("B")
	if err != nil {
		t.Fatalf("IndexOf: %v", err)
	}
	if i != 1 {
		t.Fatalf("IndexOf(B) = %d, want 1", i)
	}

	if _, err := c.IndexOf("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNewCopiesInput(t *testing.T) {
	items := sampleItems()
	matrix := sampleMatrix()

	c, err := New(items, matrix)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	items[0].Title = "changed"
	matrix[0][1] = 99

	if c.Item(0).Title != "A" {
		t.Fatalf("catalog item mutated through input slice")
	}
	row, _ := c.Row(0)
	if row[1] != 0.2 {
		t.Fatalf("catalog matrix mutated through input slice")
	}
}

func TestAccessorsDoNotShareTags(t *testing.T) {
	c, err := New(sampleItems(), sampleMatrix())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name   string
		mutate func()
	}{
		{"Item", func() { c.Item(2).Tags[0] = "Horror" }},
		{"Items", func() { c.Items()[2].Tags[0] = "Horror" }},
		{"Snapshot", func() { c.Snapshot().Items[2].Tags[0] = "Horror" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mutate()
			if got := strings.Join(c.Item(2).Tags, ","); got != "Action,Drama" {
				t.Fatalf("tags = %q, want Action,Drama", got)
			}
			if c.Item(2).HasAnyTag(NewTagSet("Horror")) {
				t.Fatal("catalog tags mutated through returned item")
			}
		})
	}
}

func TestTagsAreDeduplicated(t *testing.T) {
	c, err := New([]Item{{ID: 1, Title: "A", Tags: []string{"Drama", "Drama", "", "War"}}}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := strings.Join(c.Item(0).Tags, ","); got != "Drama,War" {
		t.Fatalf("tags = %q, want Drama,War", got)
	}
}

func TestHasAnyTag(t *testing.T) {
	it := Item{Tags: []string{"Action", "Drama"}}

	if !it.HasAnyTag(NewTagSet("Drama", "Horror")) {
		t.Fatal("expected intersection")
	}
	if it.HasAnyTag(NewTagSet("Horror")) {
		t.Fatal("unexpected intersection")
	}
	if it.HasAnyTag(NewTagSet()) {
		t.Fatal("empty set must match nothing")
	}
}

func TestReadMovies(t *testing.T) {
	in := "MovieID,Title,Genres\n" +
		"1,Toy Story (1995),Adventure|Animation|Children\n" +
		"2,\"American President, The (1995)\",Comedy|Drama|Romance\n" +
		"3,Unknown,(no genres listed)\n"

	items, err := ReadMovies(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadMovies: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[1].Title != "American President, The (1995)" {
		t.Fatalf("title = %q", items[1].Title)
	}
	if len(items[0].Tags) != 3 || items[0].Tags[1] != "Animation" {
		t.Fatalf("tags = %v", items[0].Tags)
	}
	if items[2].Tags != nil {
		t.Fatalf("tags = %v, want none", items[2].Tags)
	}
}

func TestReadMoviesRejectsBadRow(t *testing.T) {
	in := "1,A,Action\nxx,B,Drama\n"
	if _, err := ReadMovies(strings.NewReader(in)); err == nil {
		t.Fatal("expected error for invalid movieId after the first line")
	}
}

func TestReadMatrix(t *testing.T) {
	m, err := ReadMatrix(strings.NewReader("1,0.2\n0.2, 1\n"))
	if err != nil {
		t.Fatalf("ReadMatrix: %v", err)
	}
	if len(m) != 2 || m[1][0] != 0.2 || m[1][1] != 1 {
		t.Fatalf("matrix = %v", m)
	}

	if _, err := ReadMatrix(strings.NewReader("1,x\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	c, err := New(sampleItems(), sampleMatrix())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.gob")
	if err := WriteArtifact(path, c); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}

	loaded, err := LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact: %v", err)
	}
	if loaded.Len() != 3 || !loaded.HasMatrix() {
		t.Fatalf("loaded catalog len=%d matrix=%v", loaded.Len(), loaded.HasMatrix())
	}
	row, _ := loaded.Row(2)
	if row[0] != 0.7 {
		t.Fatalf("row = %v", row)
	}
}

func TestLoadCSVMatrixFile(t *testing.T) {
	dir := t.TempDir()
	movies := filepath.Join(dir, "movies.csv")
	writeFile(t, movies, "movieId,title,genres\n1,A,Action\n2,B,Drama\n3,C,Action|Drama\n")

	tests := []struct {
		name    string
		matrix  string
		wantErr error
	}{
		{"empty file", "", ErrMisaligned},
		{"blank lines only", "\n\n", ErrMisaligned},
		{"aligned", "1,0.2,0.7\n0.2,1,0.5\n0.7,0.5,1\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "similarity.csv")
			writeFile(t, path, tt.matrix)

			c, err := LoadCSV(movies, path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadCSV: %v", err)
			}
			if !c.HasMatrix() {
				t.Fatal("HasMatrix = false, want true")
			}
		})
	}

	// sin ruta de matriz: solo géneros
	c, err := LoadCSV(movies, "")
	if err != nil {
		t.Fatalf("LoadCSV without matrix: %v", err)
	}
	if c.HasMatrix() {
		t.Fatal("HasMatrix = true, want false")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}
