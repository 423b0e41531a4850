package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"library-backend/internal/domains/author"
	"library-backend/internal/infrastructure/mongodb"
)

// authorDocument is the stored shape; _id holds the UUID string
type authorDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Born      *int      `bson:"born,omitempty"`
	Seq       int64     `bson:"seq"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d *authorDocument) toModel() (*author.Author, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", d.ID, err)
	}
	return &author.Author{
		ID:        id,
		Name:      d.Name,
		Born:      d.Born,
		CreatedAt: d.CreatedAt,
	}, nil
}

type mongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository stores authors in the authors collection of db
func NewMongoRepository(db *mongo.Database) author.Repository {
	return &mongoRepository{coll: db.Collection(mongodb.AuthorsCollection)}
}

func (r *mongoRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	now := time.Now().UTC()
	doc := authorDocument{
		ID:        id.String(),
		Name:      a.Name,
		Born:      a.Born,
		Seq:       now.UnixNano(),
		CreatedAt: now.Truncate(time.Millisecond),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, author.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return doc.toModel()
}

func (r *mongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*author.Author, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoRepository) GetByName(ctx context.Context, name string) (*author.Author, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoRepository) findOne(ctx context.Context, filter bson.M) (*author.Author, error) {
	var doc authorDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return doc.toModel()
}

func (r *mongoRepository) List(ctx context.Context) ([]author.Author, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []authorDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode authors: %w", err)
	}

	authors := make([]author.Author, 0, len(docs))
	for i := range docs {
		a, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		authors = append(authors, *a)
	}
	return authors, nil
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return total, nil
}

func (r *mongoRepository) UpdateBorn(ctx context.Context, id uuid.UUID, born int) (*author.Author, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc authorDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"born": born}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return doc.toModel()
}
