package port

import "context"

type ExampleRepositoryPort interface {
	Insert(ctx context.Context, doc map[string]interface{}) error
	// FindOne returns any stored document without its _id, or nil, nil when the collection is empty.
	FindOne(ctx context.Context) (map[string]interface{}, error)
}
