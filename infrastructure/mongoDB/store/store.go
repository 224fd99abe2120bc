// Package store narrows the mongo driver to the calls repositories make, so
// adapters can be tested against in-memory fakes (see docs/mocking-mongodb.md).
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SingleResult interface {
	Decode(v interface{}) error
	Err() error
}

type Cursor interface {
	Next(ctx context.Context) bool
	Decode(v interface{}) error
	All(ctx context.Context, results interface{}) error
	Err() error
	Close(ctx context.Context) error
}

type Collection interface {
	Name() string
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	InsertOne(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	CreateIndex(ctx context.Context, model mongo.IndexModel) (string, error)
}

type Database interface {
	Name() string
	Collection(name string) Collection
}

func NewDatabase(db *mongo.Database) Database {
	return &mongoDatabase{db: db}
}

type mongoDatabase struct {
	db *mongo.Database
}

func (d *mongoDatabase) Name() string {
	return d.db.Name()
}

func (d *mongoDatabase) Collection(name string) Collection {
	return &mongoCollection{collection: d.db.Collection(name)}
}

type mongoCollection struct {
	collection *mongo.Collection
}

func (c *mongoCollection) Name() string {
	return c.collection.Name()
}

func (c *mongoCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult {
	return c.collection.FindOne(ctx, filter, opts...)
}

func (c *mongoCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	cursor, err := c.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cursor, nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error) {
	return c.collection.InsertOne(ctx, document)
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return c.collection.UpdateOne(ctx, filter, update)
}

func (c *mongoCollection) CreateIndex(ctx context.Context, model mongo.IndexModel) (string, error) {
	return c.collection.Indexes().CreateOne(ctx, model)
}
