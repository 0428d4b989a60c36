// Package graph exposes the services over GraphQL: queries and mutations on
// plain HTTP, subscriptions over a websocket.
package graph

import (
	"context"
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"

	"github.com/Jaypurnwasi/RestaurantApp/apperr"
	"github.com/Jaypurnwasi/RestaurantApp/logger"
	"github.com/Jaypurnwasi/RestaurantApp/pubsub"
	"github.com/Jaypurnwasi/RestaurantApp/services"
)

//go:embed schema.graphql
var schemaSDL string

// Resolver is the root of every query, mutation and subscription field.
// It only holds dependencies; per-request state travels in the context.
type Resolver struct {
	svc    *services.Services
	broker *pubsub.Broker
	log    *logger.Logger
}

func NewResolver(svc *services.Services, broker *pubsub.Broker, log *logger.Logger) *Resolver {
	return &Resolver{svc: svc, broker: broker, log: log.WithComponent("graphql")}
}

// panicLogger routes resolver panics into the structured log
type panicLogger struct {
	log *logger.Logger
}

func (p panicLogger) LogPanic(_ context.Context, value interface{}) {
	p.log.Error("resolver panic", "panic", value)
}

// NewSchema parses the embedded SDL against r
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r,
		graphql.Logger(panicLogger{log: r.log}),
		graphql.MaxDepth(12),
	)
}

// fail makes sure err reaches graphql-go as an *apperr.Error so its
// code and status land in the error extensions
func fail(err error) error {
	if err == nil {
		return nil
	}
	return apperr.From(err)
}

// failSubscription is fail for subscription fields. graphql-go drops the
// extensions of plain resolver errors there, so the query error is built here.
func failSubscription(err error) error {
	if err == nil {
		return nil
	}
	e := apperr.From(err)
	return &gqlerrors.QueryError{
		Message:       e.Message,
		Err:           e,
		ResolverError: e,
		Extensions:    e.Extensions(),
	}
}
