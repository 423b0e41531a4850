package graphql

import (
	"context"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/internal/domains/user"
	"library-backend/internal/infrastructure/pubsub"
	"library-backend/internal/shared/authctx"
	"library-backend/internal/shared/metrics"
)

// Resolver is the root for Query, Mutation and Subscription
type Resolver struct {
	authors author.Service
	books   book.Service
	users   user.Service
	hub     pubsub.Hub
	metrics *metrics.Metrics
}

func NewResolver(deps Dependencies) *Resolver {
	return &Resolver{
		authors: deps.Authors,
		books:   deps.Books,
		users:   deps.Users,
		hub:     deps.Hub,
		metrics: deps.Metrics,
	}
}

// ====================================
// Query
// ====================================

func (r *Resolver) BookCount(ctx context.Context) (int32, error) {
	total, err := r.books.Count(ctx)
	if err != nil {
		return 0, resolverError(err)
	}
	return int32(total), nil
}

func (r *Resolver) AuthorCount(ctx context.Context) (int32, error) {
	total, err := r.authors.Count(ctx)
	if err != nil {
		return 0, resolverError(err)
	}
	return int32(total), nil
}

type allBooksArgs struct {
	AuthorName *string
	Genre      *string
}

func (r *Resolver) AllBooks(ctx context.Context, args allBooksArgs) ([]*BookResolver, error) {
	books, err := r.books.List(ctx, book.ListBooksRequest{
		AuthorName: args.AuthorName,
		Genre:      args.Genre,
	})
	if err != nil {
		return nil, resolverError(err)
	}

	out := make([]*BookResolver, 0, len(books))
	for i := range books {
		out = append(out, r.book(&books[i]))
	}
	return out, nil
}

func (r *Resolver) AllAuthors(ctx context.Context) ([]*AuthorResolver, error) {
	authors, err := r.authors.List(ctx)
	if err != nil {
		return nil, resolverError(err)
	}

	out := make([]*AuthorResolver, 0, len(authors))
	for i := range authors {
		out = append(out, r.author(&authors[i]))
	}
	return out, nil
}

// Me is null for anonymous requests and for tokens whose user is gone
func (r *Resolver) Me(ctx context.Context) *UserResolver {
	u := authctx.CurrentUser(ctx)
	if u == nil {
		return nil
	}
	return &UserResolver{u: u}
}

// ====================================
// Mutation
// ====================================

type addAuthorArgs struct {
	Name string
	Born *int32
}

// AddAuthor needs no authentication
func (r *Resolver) AddAuthor(ctx context.Context, args addAuthorArgs) (*AuthorResolver, error) {
	if err := writable(ctx); err != nil {
		return nil, err
	}
	a, err := r.authors.Create(ctx, author.CreateAuthorRequest{
		Name: args.Name,
		Born: intPtr(args.Born),
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return r.author(a), nil
}

type addBookArgs struct {
	Title      string
	AuthorName string
	Published  int32
	Genres     []string
}

func (r *Resolver) AddBook(ctx context.Context, args addBookArgs) (*BookResolver, error) {
	if err := writable(ctx); err != nil {
		return nil, err
	}
	b, err := r.books.Add(ctx, book.AddBookRequest{
		Title:      args.Title,
		AuthorName: args.AuthorName,
		Published:  int(args.Published),
		Genres:     args.Genres,
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return r.book(b), nil
}

type editAuthorArgs struct {
	Name string
	Born int32
}

func (r *Resolver) EditAuthor(ctx context.Context, args editAuthorArgs) (*AuthorResolver, error) {
	if err := writable(ctx); err != nil {
		return nil, err
	}
	a, err := r.authors.EditBorn(ctx, author.EditAuthorRequest{
		Name: args.Name,
		Born: int(args.Born),
	})
	if err != nil {
		return nil, resolverError(err)
	}
	if a == nil {
		return nil, nil
	}
	return r.author(a), nil
}

type createUserArgs struct {
	Username      string
	FavoriteGenre string
}

func (r *Resolver) CreateUser(ctx context.Context, args createUserArgs) (*UserResolver, error) {
	if err := writable(ctx); err != nil {
		return nil, err
	}
	u, err := r.users.Create(ctx, user.CreateUserRequest{
		Username:      args.Username,
		FavoriteGenre: args.FavoriteGenre,
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return &UserResolver{u: u}, nil
}

type loginArgs struct {
	Username string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (*TokenResolver, error) {
	if err := writable(ctx); err != nil {
		return nil, err
	}
	token, err := r.users.Login(ctx, user.LoginRequest{
		Username: args.Username,
		Password: args.Password,
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return &TokenResolver{t: token}, nil
}

func (r *Resolver) author(a *author.Author) *AuthorResolver {
	return &AuthorResolver{a: a, authors: r.authors}
}

func (r *Resolver) book(b *book.Book) *BookResolver {
	return &BookResolver{b: b, authors: r.authors}
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
