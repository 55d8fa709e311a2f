package common

import (
	"context"
	"fmt"
	"reflect"
)

// Request is a planning command or query dispatched through the mediator.
type Request interface{}

// Response is whatever the matching handler returns.
type Response interface{}

// RequestHandler handles one concrete request type.
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// Mediator routes each request to the single handler registered for its
// type. Registration happens once at daemon boot; Send runs on API
// goroutines afterwards.
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
}

// NewMediator creates an empty mediator.
func NewMediator() Mediator {
	return &mediator{handlers: make(map[reflect.Type]RequestHandler)}
}

type mediator struct {
	handlers map[reflect.Type]RequestHandler
}

func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	switch {
	case requestType == nil:
		return fmt.Errorf("request type cannot be nil")
	case handler == nil:
		return fmt.Errorf("handler cannot be nil for %s", requestType)
	}
	if _, taken := m.handlers[requestType]; taken {
		return fmt.Errorf("handler already registered for %s", requestType)
	}
	m.handlers[requestType] = handler
	return nil
}

func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	handler, ok := m.handlers[reflect.TypeOf(request)]
	if !ok {
		return nil, fmt.Errorf("no handler registered for %s", reflect.TypeOf(request))
	}
	return handler.Handle(ctx, request)
}
