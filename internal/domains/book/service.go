package book

import "context"

// Service defines catalog operations on books.
type Service interface {
	Count(ctx context.Context) (int, error)

	// List applies the allBooks filter rules. An unknown author name
	// yields an empty list.
	List(ctx context.Context, req ListBooksRequest) ([]Book, error)

	// Add runs the addBook sequence: auth, combined validation,
	// author find-or-create, insert, populated re-read, event.
	// Errors: AuthenticationRequired, ValidationError, PersistenceFailure
	Add(ctx context.Context, req AddBookRequest) (*Book, error)
}

// EventSink receives every successfully created book.
// Implementations must not block the caller.
type EventSink interface {
	BookAdded(ctx context.Context, b *Book)
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(ctx context.Context, b *Book)

func (f EventSinkFunc) BookAdded(ctx context.Context, b *Book) { f(ctx, b) }

// MultiSink fans one event out to several sinks in order
type MultiSink []EventSink

func (m MultiSink) BookAdded(ctx context.Context, b *Book) {
	for _, sink := range m {
		sink.BookAdded(ctx, b)
	}
}
