// Package catalog contiene el catálogo ordenado de películas y la matriz de
// similitud precalculada alineada con ese orden.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrNotFound indica que el título pedido no existe en el catálogo.
	ErrNotFound = errors.New("película no encontrada en el catálogo")

	// ErrMisaligned indica que la matriz no es cuadrada o no coincide con el catálogo.
	ErrMisaligned = errors.New("matriz de similitud desalineada con el catálogo")

	// ErrInvalidScore indica un puntaje NaN o infinito en la matriz.
	ErrInvalidScore = errors.New("puntaje de similitud no finito")

	// ErrNoMatrix indica que el catálogo se cargó sin matriz de similitud.
	ErrNoMatrix = errors.New("catálogo cargado sin matriz de similitud")
)

// ---------------------------------------------------------
// Item y conjunto de etiquetas
// ---------------------------------------------------------

type Item struct {
	ID    int      `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// TagSet es un conjunto de géneros.
type TagSet map[string]struct{}

func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// HasAnyTag es verdadero si la intersección con set no es vacía.
func (it Item) HasAnyTag(set TagSet) bool {
	if len(set) == 0 {
		return false
	}
	for _, t := range it.Tags {
		if set.Has(t) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------
// Catálogo
// ---------------------------------------------------------

// Catalog es inmutable después de New. La posición i de items corresponde
// exactamente a la fila y columna i de la matriz.
type Catalog struct {
	items   []Item
	matrix  [][]float64
	byTitle map[string]int
}

// New copia items y matrix. matrix puede ser nil: en ese caso solo funciona
// el filtrado por género.
func New(items []Item, matrix [][]float64) (*Catalog, error) {
	if matrix != nil {
		if err := checkAlignment(len(items), matrix); err != nil {
			return nil, err
		}
	}

	c := &Catalog{
		items:   make([]Item, len(items)),
		byTitle: make(map[string]int, len(items)),
	}

	for i, it := range items {
		it.Tags = dedupTags(it.Tags)
		c.items[i] = it

		// títulos repetidos: gana la primera aparición
		if _, seen := c.byTitle[it.Title]; !seen {
			c.byTitle[it.Title] = i
		}
	}

	if matrix != nil {
		c.matrix = make([][]float64, len(matrix))
		for i, row := range matrix {
			c.matrix[i] = append([]float64(nil), row...)
		}
	}

	return c, nil
}

func checkAlignment(n int, matrix [][]float64) error {
	if len(matrix) != n {
		return fmt.Errorf("%w: %d filas para %d películas", ErrMisaligned, len(matrix), n)
	}
	for i, row := range matrix {
		if len(row) != n {
			return fmt.Errorf("%w: fila %d tiene %d columnas, se esperaban %d", ErrMisaligned, i, len(row), n)
		}
		// NaN no se ordena contra nada y rompería el ranking
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: fila %d columna %d = %v", ErrInvalidScore, i, j, v)
			}
		}
	}
	return nil
}

func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (c *Catalog) Len() int { return len(c.items) }

// Item devuelve una copia de la película en la posición i, etiquetas incluidas.
func (c *Catalog) Item(i int) Item {
	it := c.items[i]
	it.Tags = slices.Clone(it.Tags)
	return it
}

// Items devuelve una copia del catálogo en su orden fijo.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	for i := range c.items {
		out[i] = c.Item(i)
	}
	return out
}

func (c *Catalog) HasMatrix() bool { return c.matrix != nil }

// IndexOf resuelve un título exacto a su posición.
func (c *Catalog) IndexOf(title string) (int, error) {
	i, ok := c.byTitle[title]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return i, nil
}

// Row devuelve la fila de similitud de la posición i. No debe modificarse.
func (c *Catalog) Row(i int) ([]float64, error) {
	if c.matrix == nil {
		return nil, ErrNoMatrix
	}
	return c.matrix[i], nil
}

// Snapshot es la forma serializable del catálogo (artefacto gob).
type Snapshot struct {
	Items  []Item
	Matrix [][]float64
}

func (c *Catalog) Snapshot() Snapshot {
	return Snapshot{Items: c.Items(), Matrix: c.matrix}
}
