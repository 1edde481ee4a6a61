package model

import (
	"context"
	"net"
)

// SecurityLayer produces the network listener a server serves on, either
// plain TCP or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running request server with graceful shutdown.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// ContextManager moves the authenticated user through a request context.
type ContextManager interface {
	SetUserToContext(ctx context.Context, user SessionUser) context.Context
	GetUserFromContext(ctx context.Context) (SessionUser, bool)
}
