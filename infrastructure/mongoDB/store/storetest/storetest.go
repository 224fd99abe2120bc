// Package storetest provides in-memory fakes for the store interfaces.
//
// A Database routes Collection(name) through a map so each test wires only the
// collections it cares about. Find returns a Cursor over plain documents and
// every fake records its calls for assertions.
package storetest

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pair-programming-backend/infrastructure/mongoDB/store"
)

var errNoCurrentDocument = errors.New("storetest: Decode called before Next")

type Database struct {
	DatabaseName string

	mu          sync.Mutex
	collections map[string]*Collection
}

func NewDatabase(collections ...*Collection) *Database {
	db := &Database{
		DatabaseName: "test",
		collections:  make(map[string]*Collection),
	}
	for _, c := range collections {
		db.collections[c.CollectionName] = c
	}
	return db
}

func (d *Database) Name() string {
	return d.DatabaseName
}

// Collection returns the registered fake, creating an empty one on first use.
func (d *Database) Collection(name string) store.Collection {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.collections[name]; ok {
		return c
	}
	c := &Collection{CollectionName: name}
	d.collections[name] = c
	return c
}

type Call struct {
	Method   string
	Filter   interface{}
	Update   interface{}
	Document interface{}
}

type Collection struct {
	CollectionName string

	FindOneFunc     func(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) store.SingleResult
	FindFunc        func(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (store.Cursor, error)
	InsertOneFunc   func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	UpdateOneFunc   func(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	CreateIndexFunc func(ctx context.Context, model mongo.IndexModel) (string, error)

	mu    sync.Mutex
	calls []Call
}

func (c *Collection) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

// CallsTo returns the recorded calls to method in order.
func (c *Collection) CallsTo(method string) []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Call
	for _, call := range c.calls {
		if call.Method == method {
			out = append(out, call)
		}
	}
	return out
}

func (c *Collection) Name() string {
	return c.CollectionName
}

func (c *Collection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) store.SingleResult {
	c.record(Call{Method: "FindOne", Filter: filter})
	if c.FindOneFunc != nil {
		return c.FindOneFunc(ctx, filter, opts...)
	}
	return NoDocuments()
}

func (c *Collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (store.Cursor, error) {
	c.record(Call{Method: "Find", Filter: filter})
	if c.FindFunc != nil {
		return c.FindFunc(ctx, filter, opts...)
	}
	return NewCursor(), nil
}

func (c *Collection) InsertOne(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error) {
	c.record(Call{Method: "InsertOne", Document: document})
	if c.InsertOneFunc != nil {
		return c.InsertOneFunc(ctx, document)
	}
	return &mongo.InsertOneResult{}, nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	c.record(Call{Method: "UpdateOne", Filter: filter, Update: update})
	if c.UpdateOneFunc != nil {
		return c.UpdateOneFunc(ctx, filter, update)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (c *Collection) CreateIndex(ctx context.Context, model mongo.IndexModel) (string, error) {
	c.record(Call{Method: "CreateIndex", Document: model})
	if c.CreateIndexFunc != nil {
		return c.CreateIndexFunc(ctx, model)
	}
	return "index", nil
}

// Result is a SingleResult over one document.
type Result struct {
	Doc   interface{}
	Error error
}

func NewResult(doc interface{}) *Result {
	return &Result{Doc: doc}
}

func NoDocuments() *Result {
	return &Result{Error: mongo.ErrNoDocuments}
}

func FailedResult(err error) *Result {
	return &Result{Error: err}
}

func (r *Result) Err() error {
	return r.Error
}

func (r *Result) Decode(v interface{}) error {
	if r.Error != nil {
		return r.Error
	}
	if r.Doc == nil {
		return mongo.ErrNoDocuments
	}
	return roundTrip(r.Doc, v)
}

// Cursor iterates over Docs. Setting Error makes Next stop and Err/All report it.
type Cursor struct {
	Docs   []interface{}
	Error  error
	Closed bool

	pos int
}

func NewCursor(docs ...interface{}) *Cursor {
	return &Cursor{Docs: docs}
}

func FailedCursor(err error) *Cursor {
	return &Cursor{Error: err}
}

func (c *Cursor) Next(context.Context) bool {
	if c.Error != nil || c.Closed || c.pos >= len(c.Docs) {
		return false
	}
	c.pos++
	return true
}

func (c *Cursor) Decode(v interface{}) error {
	if c.pos == 0 {
		return errNoCurrentDocument
	}
	return roundTrip(c.Docs[c.pos-1], v)
}

func (c *Cursor) All(ctx context.Context, results interface{}) error {
	defer c.Close(ctx)
	if c.Error != nil {
		return c.Error
	}

	remaining := c.Docs[c.pos:]
	c.pos = len(c.Docs)

	raw, err := bson.Marshal(bson.M{"docs": append([]interface{}{}, remaining...)})
	if err != nil {
		return err
	}
	var wrapper struct {
		Docs bson.RawValue `bson:"docs"`
	}
	if err := bson.Unmarshal(raw, &wrapper); err != nil {
		return err
	}
	return wrapper.Docs.Unmarshal(results)
}

func (c *Cursor) Err() error {
	return c.Error
}

func (c *Cursor) Close(context.Context) error {
	c.Closed = true
	return nil
}

func roundTrip(doc, v interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}
