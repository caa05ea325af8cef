// Package handler defines the handler contract shared by the registry,
// the dispatcher and every middleware.
package handler

import (
	"context"

	"github.com/artpar/handlerkit/domain/request"
)

// Handler processes one dispatched request.
type Handler func(ctx context.Context, req request.Request) error

// Middleware wraps a handler. It may act before or after the call, or elect
// not to call the wrapped handler at all.
type Middleware func(next Handler) Handler

// Chain wraps h with the given middlewares. The first middleware is the
// outermost one, so Chain(h, a, b) behaves like a(b(h)).
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
