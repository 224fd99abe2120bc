package adapter

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pair-programming-backend/domains/user/application/port"
	"pair-programming-backend/domains/user/domain"
	"pair-programming-backend/infrastructure/mongoDB/model"
	"pair-programming-backend/infrastructure/mongoDB/store"
	"pair-programming-backend/shared/common/logger"
)

const UsersCollection = "users"

type UserRepositoryAdapter struct {
	collection store.Collection
}

func NewUserRepositoryPort(db store.Database) port.UserRepositoryPort {
	return &UserRepositoryAdapter{
		collection: db.Collection(UsersCollection),
	}
}

// EnsureUserIndexes creates the unique email index. It is safe to call on every start.
func EnsureUserIndexes(ctx context.Context, db store.Database) error {
	name, err := db.Collection(UsersCollection).CreateIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("creating users index: %w", err)
	}
	logger.Debug("Index ensured", logger.WithString("collection", UsersCollection), logger.WithString("index", name))
	return nil
}

func (a *UserRepositoryAdapter) Save(ctx context.Context, user *domain.User) (string, error) {
	doc := model.NewUserModel(user)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}

	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUserAlreadyRegistered
		}
		return "", err
	}

	return doc.ID.Hex(), nil
}

func (a *UserRepositoryAdapter) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return a.findOne(ctx, bson.M{"email": email})
}

func (a *UserRepositoryAdapter) FindAll(ctx context.Context) ([]*domain.User, error) {
	cursor, err := a.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []model.User
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].ToDomain())
	}
	return users, nil
}

func (a *UserRepositoryAdapter) FindFirstExcluding(ctx context.Context, excludeIDs []string) (*domain.User, error) {
	filter := bson.M{"_id": bson.M{"$nin": model.ObjectIDs(excludeIDs)}}
	return a.findOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// AddPairing appends partnerID to the user's pairings unless already present.
func (a *UserRepositoryAdapter) AddPairing(ctx context.Context, userID, partnerID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidUserID, userID)
	}
	partner, err := primitive.ObjectIDFromHex(partnerID)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidUserID, partnerID)
	}

	result, err := a.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"paired_with": partner}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (a *UserRepositoryAdapter) findOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*domain.User, error) {
	var doc model.User
	err := a.collection.FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.ToDomain(), nil
}
