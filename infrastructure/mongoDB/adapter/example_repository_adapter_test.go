package adapter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pair-programming-backend/infrastructure/mongoDB/store"
	"pair-programming-backend/infrastructure/mongoDB/store/storetest"
)

func TestExampleRepositoryRoundTrip(t *testing.T) {
	collection := &storetest.Collection{CollectionName: ExampleCollection}
	collection.FindOneFunc = func(_ context.Context, _ interface{}, opts ...*options.FindOneOptions) store.SingleResult {
		if len(opts) != 1 || !reflect.DeepEqual(opts[0].Projection, bson.M{"_id": 0}) {
			t.Errorf("FindOne options = %+v, want _id projected out", opts)
		}
		inserted := collection.CallsTo("InsertOne")
		if len(inserted) == 0 {
			return storetest.NoDocuments()
		}
		return storetest.NewResult(inserted[0].Document)
	}
	repo := NewExampleRepositoryPort(storetest.NewDatabase(collection))

	if err := repo.Insert(context.Background(), map[string]interface{}{"foo": "bar"}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	doc, err := repo.FindOne(context.Background())
	if err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	if !reflect.DeepEqual(doc, map[string]interface{}{"foo": "bar"}) {
		t.Errorf("FindOne() = %v, want foo=bar", doc)
	}
}

func TestExampleRepositoryEmpty(t *testing.T) {
	repo := NewExampleRepositoryPort(storetest.NewDatabase())

	doc, err := repo.FindOne(context.Background())
	if err != nil || doc != nil {
		t.Errorf("FindOne() = %v, %v, want nil, nil", doc, err)
	}
}

func TestExampleRepositoryInsertError(t *testing.T) {
	collection := &storetest.Collection{CollectionName: ExampleCollection}
	collection.InsertOneFunc = func(context.Context, interface{}) (*mongo.InsertOneResult, error) {
		return nil, errMockMongo
	}
	repo := NewExampleRepositoryPort(storetest.NewDatabase(collection))

	if err := repo.Insert(context.Background(), map[string]interface{}{"foo": "bar"}); !errors.Is(err, errMockMongo) {
		t.Errorf("Insert() error = %v, want %v", err, errMockMongo)
	}
}
