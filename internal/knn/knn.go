package knn

import (
	"sort"

	"movierec/internal/catalog"
)

// ---------------------------------------------------------
// Vecino con su posición en el catálogo y su similitud
// ---------------------------------------------------------

type Neighbor struct {
	Position   int
	Item       catalog.Item
	Similarity float64
}

// Index responde consultas de vecinos más cercanos por película usando
// las filas de la matriz precalculada.
type Index struct {
	catalog *catalog.Catalog
}

func NewIndex(c *catalog.Catalog) *Index {
	return &Index{catalog: c}
}

// NearestNeighbors devuelve hasta k películas más parecidas a title, sin
// incluir a la propia película.
func (x *Index) NearestNeighbors(title string, k int) ([]catalog.Item, error) {
	neighbors, err := x.Neighbors(title, k)
	if err != nil {
		return nil, err
	}

	items := make([]catalog.Item, len(neighbors))
	for i, nb := range neighbors {
		items[i] = nb.Item
	}
	return items, nil
}

// Neighbors es NearestNeighbors con la posición y la similitud de cada vecino.
func (x *Index) Neighbors(title string, k int) ([]Neighbor, error) {
	pos, err := x.catalog.IndexOf(title)
	if err != nil {
		return nil, err
	}

	row, err := x.catalog.Row(pos)
	if err != nil {
		return nil, err
	}

	if k <= 0 {
		return []Neighbor{}, nil
	}

	list := make([]Neighbor, 0, len(row))
	for j, sim := range row {
		if j == pos {
			continue
		}
		list = append(list, Neighbor{Position: j, Similarity: sim})
	}

	list = TopK(list, k)
	for i := range list {
		list[i].Item = x.catalog.Item(list[i].Position)
	}
	return list, nil
}

// ---------------------------------------------------------
// Ordenamiento y selección de los K mejores vecinos
// ---------------------------------------------------------

// TopK ordena de mayor a menor similitud. En empates se conserva el orden
// de entrada, que para Neighbors es el orden del catálogo.
func TopK(list []Neighbor, k int) []Neighbor {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Similarity > list[j].Similarity
	})
	if len(list) > k {
		return list[:k]
	}
	return list
}
