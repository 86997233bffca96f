package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"movierec/internal/survey"
	"movierec/pkg/database"
)

// ---------------------------------------------------------
// Perfiles en MongoDB (colección profiles)
// ---------------------------------------------------------

type MongoProfileStore struct {
	col *mongo.Collection
}

func NewMongoProfileStore(db *database.DB) *MongoProfileStore {
	return &MongoProfileStore{col: db.ProfilesCollection()}
}

func (s *MongoProfileStore) Append(ctx context.Context, p survey.Profile) error {
	_, err := s.col.InsertOne(ctx, profileDocument(p))
	return err
}

func profileDocument(p survey.Profile) database.ProfileDocument {
	return database.ProfileDocument{
		ProfileID:           p.ID,
		ContactMethod:       p.ContactMethod,
		Email:               p.Email,
		Phone:               p.Phone,
		Age:                 p.Age,
		StorylineImportance: p.StorylineImportance,
		ComplexCharacters:   p.ComplexCharacters,
		MovieFrequency:      p.MovieFrequency,
		PreferredGenres:     p.PreferredGenres,
		TimestampUnix:       p.CreatedAt.Unix(),
	}
}

// ---------------------------------------------------------
// Historial en MongoDB (colección recommendations)
// ---------------------------------------------------------

type MongoHistoryStore struct {
	col *mongo.Collection
}

func NewMongoHistoryStore(db *database.DB) *MongoHistoryStore {
	return &MongoHistoryStore{col: db.RecsCollection()}
}

func (s *MongoHistoryStore) Record(ctx context.Context, e HistoryEntry) error {
	_, err := s.col.InsertOne(ctx, recommendationDocument(e))
	return err
}

// Convertimos recommend.Result → RecommendationDocument
func recommendationDocument(e HistoryEntry) database.RecommendationDocument {
	items := make([]database.RecommendedItem, 0, len(e.Result.Items))
	for _, r := range e.Result.Items {
		items = append(items, database.RecommendedItem{
			MovieID:   r.ID,
			Title:     r.Title,
			PosterURL: r.PosterURL,
		})
	}

	return database.RecommendationDocument{
		RequestID:     e.RequestID,
		Mode:          string(e.Result.Mode),
		Query:         e.Query,
		Recommended:   items,
		LatencyMS:     e.Latency.Milliseconds(),
		TimestampUnix: e.At.Unix(),
	}
}
