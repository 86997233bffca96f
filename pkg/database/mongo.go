package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// -------------------------
// Cliente Mongo
// -------------------------

type DB struct {
	client *mongo.Client
	name   string
}

// Connect abre el cliente y verifica la conexión con un ping.
func Connect(ctx context.Context, uri, dbName string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Verificar conexión
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return &DB{client: client, name: dbName}, nil
}

func (db *DB) Disconnect(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

func (db *DB) ProfilesCollection() *mongo.Collection {
	return db.client.Database(db.name).Collection("profiles")
}

func (db *DB) RecsCollection() *mongo.Collection {
	return db.client.Database(db.name).Collection("recommendations")
}
