package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"library-backend/internal/domains/user"
	"library-backend/internal/infrastructure/mongodb"
)

type userDocument struct {
	ID            string    `bson:"_id"`
	Username      string    `bson:"username"`
	FavoriteGenre string    `bson:"favoriteGenre"`
	CreatedAt     time.Time `bson:"createdAt"`
}

func (d *userDocument) toModel() (*user.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	return &user.User{
		ID:            id,
		Username:      d.Username,
		FavoriteGenre: d.FavoriteGenre,
		CreatedAt:     d.CreatedAt,
	}, nil
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) user.Repository {
	return &mongoRepository{coll: db.Collection(mongodb.UsersCollection)}
}

func (r *mongoRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	id := u.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	doc := userDocument{
		ID:            id.String(),
		Username:      u.Username,
		FavoriteGenre: u.FavoriteGenre,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, user.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return doc.toModel()
}

func (r *mongoRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toModel()
}
