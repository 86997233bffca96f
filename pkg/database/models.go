package database

// -----------------------------------------------------------
// DOCUMENTO: Perfil de encuesta
// Colección: profiles
// -----------------------------------------------------------

type ProfileDocument struct {
	ProfileID           string   `bson:"_id" json:"id"`
	ContactMethod       string   `bson:"contact_method" json:"contact_method"`
	Email               string   `bson:"email,omitempty" json:"email,omitempty"`
	Phone               string   `bson:"phone,omitempty" json:"phone,omitempty"`
	Age                 string   `bson:"age" json:"age"`
	StorylineImportance int      `bson:"storyline_importance" json:"storyline_importance"`
	ComplexCharacters   int      `bson:"complex_characters" json:"complex_characters"`
	MovieFrequency      int      `bson:"movie_frequency" json:"movie_frequency"`
	PreferredGenres     []string `bson:"preferred_genres" json:"preferred_genres"`
	TimestampUnix       int64    `bson:"timestamp" json:"timestamp"`
}

// -----------------------------------------------------------
// DOCUMENTO: Recomendación servida
// Colección: recommendations
// -----------------------------------------------------------

type RecommendedItem struct {
	MovieID   int    `bson:"movie_id" json:"movie_id"`
	Title     string `bson:"title" json:"title"`
	PosterURL string `bson:"poster_url" json:"poster_url"`
}

type RecommendationDocument struct {
	RequestID     string            `bson:"request_id" json:"request_id"`
	Mode          string            `bson:"mode" json:"mode"`
	Query         string            `bson:"query,omitempty" json:"query,omitempty"`
	Recommended   []RecommendedItem `bson:"recommended" json:"recommended"`
	LatencyMS     int64             `bson:"latency_ms" json:"latency_ms"`
	TimestampUnix int64             `bson:"timestamp" json:"timestamp"`
}
