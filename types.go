package guard

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the two facts the guard needs from a user: the primary
// key value used to persist the session, and the unique identifier the
// user was looked up by (email, username).
type Identity interface {
	ID() string
	UID() string
}

// UserProvider resolves and verifies users against a backing store. The
// guard depends only on this contract, never on storage details; see
// RepositoryProvider for the bun-backed implementation.
type UserProvider interface {
	FindByUID(ctx context.Context, uid string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	FindByRememberToken(ctx context.Context, token string) (Identity, error)
	VerifyPassword(ctx context.Context, user Identity, password string) (bool, error)
	SaveRememberToken(ctx context.Context, user Identity, token string) error
}

// SessionStore is the per-request key/value state the guard persists the
// session key into. Implementations are scoped to one request/response
// cycle.
type SessionStore interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Forget(ctx context.Context, key string) error
}

// ClientTokenStore is the client-held token state (typically cookies)
// the remember token lives in. Values written through Set expire after
// expiresIn.
type ClientTokenStore interface {
	Set(ctx context.Context, key, value string, expiresIn time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Clear(ctx context.Context, key string) error
}

// Guard holds the methods to manage an authenticated session for one
// request.
type Guard interface {
	Validate(ctx context.Context, uid, password string) (Identity, error)
	Attempt(ctx context.Context, uid, password string) (Identity, error)
	Login(ctx context.Context, user Identity) (Identity, error)
	LoginViaID(ctx context.Context, id string) (Identity, error)
	Logout(ctx context.Context) error
	Check(ctx context.Context) (bool, error)
	User(ctx context.Context) (Identity, error)
	Remember(value any) error
	CurrentUser() Identity
	ViaRemember() bool
}

// LoginPayload is the request shape HTTP handlers bind credentials into.
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
	GetRemember() any
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GUARD "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GUARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GUARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
