package genre

import "movierec/internal/catalog"

// Filter selecciona películas del catálogo por género preferido.
type Filter struct {
	catalog *catalog.Catalog
}

func NewFilter(c *catalog.Catalog) *Filter {
	return &Filter{catalog: c}
}

// FilterByTags recorre el catálogo en su orden y junta hasta limit películas
// que comparten al menos un género con preferred. Sin preferencias no hay
// coincidencias. No hay puntaje entre coincidencias: gana el orden del catálogo.
func (f *Filter) FilterByTags(preferred catalog.TagSet, limit int) []catalog.Item {
	out := []catalog.Item{}
	if len(preferred) == 0 || limit <= 0 {
		return out
	}

	for i := 0; i < f.catalog.Len(); i++ {
		it := f.catalog.Item(i)
		if !it.HasAnyTag(preferred) {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Count devuelve cuántas películas del catálogo tienen cada género.
func (f *Filter) Count() map[string]int {
	counts := make(map[string]int)
	for i := 0; i < f.catalog.Len(); i++ {
		for _, t := range f.catalog.Item(i).Tags {
			counts[t]++
		}
	}
	return counts
}
