package adapter

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pair-programming-backend/domains/example/application/port"
	"pair-programming-backend/infrastructure/mongoDB/store"
)

const ExampleCollection = "example"

type ExampleRepositoryAdapter struct {
	collection store.Collection
}

func NewExampleRepositoryPort(db store.Database) port.ExampleRepositoryPort {
	return &ExampleRepositoryAdapter{
		collection: db.Collection(ExampleCollection),
	}
}

func (a *ExampleRepositoryAdapter) Insert(ctx context.Context, doc map[string]interface{}) error {
	_, err := a.collection.InsertOne(ctx, bson.M(doc))
	return err
}

func (a *ExampleRepositoryAdapter) FindOne(ctx context.Context) (map[string]interface{}, error) {
	var doc bson.M
	err := a.collection.FindOne(ctx, bson.M{}, options.FindOne().SetProjection(bson.M{"_id": 0})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return map[string]interface{}(doc), nil
}
