// Package survey define el perfil de la encuesta, las opciones fijas del
// formulario y su validación.
package survey

import (
	"strings"
	"time"

	"movierec/internal/catalog"
)

// MaxGenres es el máximo de géneros que se pueden elegir.
const MaxGenres = 5

// Contact methods
const (
	ContactEmail = "Email"
	ContactPhone = "Phone"
	ContactNone  = "None"
)

var AgeBrackets = []string{
	"Under 18",
	"18 to 24",
	"25 to 34",
	"35 to 44",
	"45 to 55",
	"65 and over",
}

// Genres son las opciones del formulario, en el orden en que se muestran.
var Genres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Drama", "Fantasy", "Horror", "Mystery",
	"Romance", "Sci-Fi (Science Fiction)", "Thriller", "Crime", "Documentary", "Musical",
	"Family", "History", "Biography", "War", "Western", "Sport",
}

// genreAliases traduce la etiqueta del formulario al género del catálogo
// MovieLens cuando difieren.
var genreAliases = map[string]string{
	"Sci-Fi (Science Fiction)": "Sci-Fi",
	"Family":                   "Children",
}

type Profile struct {
	ID            string `json:"id,omitempty"`
	ContactMethod string `json:"contact_method" validate:"required,oneof=Email Phone None"`
	Email         string `json:"email,omitempty" validate:"required_if=ContactMethod Email,omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"required_if=ContactMethod Phone,omitempty,phone"`
	Age           string `json:"age" validate:"required,agebracket"`

	// Escalas de 1 a 5
	StorylineImportance int `json:"storyline_importance" validate:"min=1,max=5"`
	ComplexCharacters   int `json:"complex_characters" validate:"min=1,max=5"`
	MovieFrequency      int `json:"movie_frequency" validate:"min=1,max=5"`

	PreferredGenres []string  `json:"preferred_genres" validate:"min=1,max=5,unique,dive,surveygenre"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// Normalize limpia espacios y descarta el contacto que no corresponde al
// método elegido.
func (p *Profile) Normalize() {
	p.ContactMethod = strings.TrimSpace(p.ContactMethod)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Age = strings.TrimSpace(p.Age)

	switch p.ContactMethod {
	case ContactEmail:
		p.Phone = ""
	case ContactPhone:
		p.Email = ""
	default:
		p.Email, p.Phone = "", ""
	}

	genres := make([]string, 0, len(p.PreferredGenres))
	for _, g := range p.PreferredGenres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	p.PreferredGenres = genres
}

// CatalogGenre devuelve el nombre de género del catálogo para una opción
// del formulario.
func CatalogGenre(option string) string {
	if g, ok := genreAliases[option]; ok {
		return g
	}
	return option
}

// TagSet convierte los géneros preferidos al conjunto usado por el filtro.
func (p Profile) TagSet() catalog.TagSet {
	tags := make([]string, 0, len(p.PreferredGenres))
	for _, g := range p.PreferredGenres {
		tags = append(tags, CatalogGenre(g))
	}
	return catalog.NewTagSet(tags...)
}

func isGenre(option string) bool {
	for _, g := range Genres {
		if g == option {
			return true
		}
	}
	return false
}

func isAgeBracket(v string) bool {
	for _, a := range AgeBrackets {
		if a == v {
			return true
		}
	}
	return false
}
