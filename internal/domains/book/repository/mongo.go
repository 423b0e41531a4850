package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/internal/infrastructure/mongodb"
)

type bookDocument struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Published int       `bson:"published"`
	Genres    []string  `bson:"genres"`
	AuthorID  string    `bson:"authorId"`
	Seq       int64     `bson:"seq"`
	CreatedAt time.Time `bson:"createdAt"`

	// filled by $lookup, never stored
	Author *bookAuthorDocument `bson:"author,omitempty"`
}

type bookAuthorDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Born      *int      `bson:"born,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d *bookDocument) toModel() (*book.Book, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid book id %q: %w", d.ID, err)
	}
	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", d.AuthorID, err)
	}

	genres := d.Genres
	if genres == nil {
		genres = []string{}
	}

	b := &book.Book{
		ID:        id,
		Title:     d.Title,
		Published: d.Published,
		Genres:    genres,
		AuthorID:  authorID,
		CreatedAt: d.CreatedAt,
	}
	if d.Author != nil {
		b.Author = &author.Author{
			ID:        authorID,
			Name:      d.Author.Name,
			Born:      d.Author.Born,
			CreatedAt: d.Author.CreatedAt,
		}
	}
	return b, nil
}

type mongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository stores books in the books collection and populates
// authors with a $lookup on every read
func NewMongoRepository(db *mongo.Database) book.Repository {
	return &mongoRepository{coll: db.Collection(mongodb.BooksCollection)}
}

func (r *mongoRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	id := b.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	genres := b.Genres
	if genres == nil {
		genres = []string{}
	}

	now := time.Now().UTC()
	doc := bookDocument{
		ID:        id.String(),
		Title:     b.Title,
		Published: b.Published,
		Genres:    genres,
		AuthorID:  b.AuthorID.String(),
		Seq:       now.UnixNano(),
		CreatedAt: now.Truncate(time.Millisecond),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, book.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return doc.toModel()
}

func (r *mongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	books, err := r.aggregate(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if len(books) == 0 {
		return nil, book.ErrBookNotFound
	}
	return &books[0], nil
}

func (r *mongoRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"title": title})
	if err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return n > 0, nil
}

func (r *mongoRepository) List(ctx context.Context, filter book.Filter) ([]book.Book, error) {
	match := bson.M{}
	if filter.AuthorID != nil {
		match["authorId"] = filter.AuthorID.String()
	}
	if filter.Genre != "" {
		// matches any element of the genres array
		match["genres"] = filter.Genre
	}

	books, err := r.aggregate(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	return books, nil
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return total, nil
}

func (r *mongoRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{"authorId": authorID.String()})
	if err != nil {
		return 0, fmt.Errorf("failed to count books by author: %w", err)
	}
	return total, nil
}

// aggregate runs match -> sort -> lookup author -> unwind
func (r *mongoRepository) aggregate(ctx context.Context, match bson.M) ([]book.Book, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "seq", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: mongodb.AuthorsCollection},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: "$author"}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	books := make([]book.Book, 0, len(docs))
	for i := range docs {
		b, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, nil
}
