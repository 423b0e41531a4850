// Package graphql binds the catalog services to the GraphQL schema and
// serves it over HTTP and graphql-ws.
package graphql

import (
	_ "embed"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/internal/domains/user"
	"library-backend/internal/infrastructure/pubsub"
	"library-backend/internal/shared/metrics"
)

//go:embed schema.graphql
var schemaSDL string

// SchemaSDL returns the schema definition served by the API
func SchemaSDL() string {
	return schemaSDL
}

// Dependencies of the root resolver
type Dependencies struct {
	Authors author.Service
	Books   book.Service
	Users   user.Service
	Hub     pubsub.Hub
	Metrics *metrics.Metrics
}

// Options for schema parsing
type Options struct {
	MaxDepth int
}

// NewSchema parses the schema against the root resolver. It panics if a
// resolver method is missing, which is a programming error.
func NewSchema(deps Dependencies, opts Options) *graphqlgo.Schema {
	schemaOpts := []graphqlgo.SchemaOpt{
		graphqlgo.UseStringDescriptions(),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphqlgo.MaxDepth(opts.MaxDepth))
	}
	return graphqlgo.MustParseSchema(schemaSDL, NewResolver(deps), schemaOpts...)
}
