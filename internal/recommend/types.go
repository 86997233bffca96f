package recommend

import (
	"context"

	"movierec/internal/catalog"
)

// Input es la entrada de Recommend: ItemSelection, Survey o nil.
type Input interface {
	isInput()
}

// ItemSelection pide películas parecidas a una película elegida.
type ItemSelection struct {
	Title string
}

// Survey pide películas de los géneros preferidos de un perfil.
type Survey struct {
	PreferredTags catalog.TagSet
}

func (ItemSelection) isInput() {}
func (Survey) isInput()        {}

type Mode string

const (
	ModeSimilar Mode = "similar"
	ModeSurvey  Mode = "survey"
	ModeNone    Mode = "none"
)

type Recommendation struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
}

type Result struct {
	Mode  Mode             `json:"mode"`
	Items []Recommendation `json:"items"`
}

// PosterResolver obtiene la URL del póster de una película.
type PosterResolver interface {
	Resolve(ctx context.Context, movieID int) (string, error)
}

// PosterFunc adapta una función a PosterResolver.
type PosterFunc func(ctx context.Context, movieID int) (string, error)

func (f PosterFunc) Resolve(ctx context.Context, movieID int) (string, error) {
	return f(ctx, movieID)
}
