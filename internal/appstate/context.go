package appstate

import (
	"context"
	"errors"
)

var (
	// ErrNoContainer is returned when a context carries no container.
	ErrNoContainer = errors.New("appstate: no container in context")

	// ErrContainerActive is returned by New while another container is open.
	ErrContainerActive = errors.New("appstate: a container is already active")

	// ErrContainerClosed is the panic value of methods called after Close.
	ErrContainerClosed = errors.New("appstate: container is closed")
)

type containerKey struct{}

// WithContainer returns a copy of ctx carrying c.
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerKey{}, c)
}

// From returns the container attached to ctx.
func From(ctx context.Context) (*Container, error) {
	c, ok := ctx.Value(containerKey{}).(*Container)
	if !ok || c == nil {
		return nil, ErrNoContainer
	}
	return c, nil
}

// MustFrom is like From but panics when ctx carries no container.
func MustFrom(ctx context.Context) *Container {
	c, err := From(ctx)
	if err != nil {
		panic(err)
	}
	return c
}
