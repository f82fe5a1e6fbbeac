package guard

import (
	"context"
	"time"
)

const (
	// DefaultSessionKey is the persisted-state key the authenticated
	// user's primary key is written under.
	DefaultSessionKey = "auth_user_id"
	// DefaultRememberKey is the client token key the remember token is
	// written under.
	DefaultRememberKey = "remember_token"
	// DefaultTokenLength is the length of generated remember tokens.
	DefaultTokenLength = 60
)

// SessionGuard decides whether a request is authenticated and as whom.
// One instance is scoped to exactly one request and must not be shared
// across concurrent requests; no locking happens here.
type SessionGuard struct {
	provider UserProvider
	session  SessionStore
	tokens   ClientTokenStore

	sessionKey  string
	rememberKey string
	tokenLength int
	generate    TokenGenerator
	logger      Logger

	user        Identity
	viaRemember bool
	remember    rememberDuration
}

var _ Guard = (*SessionGuard)(nil)

// GuardOption customizes a SessionGuard.
type GuardOption func(*SessionGuard)

// WithSessionKey overrides the session key the user id is stored under.
func WithSessionKey(key string) GuardOption {
	return func(g *SessionGuard) {
		if key != "" {
			g.sessionKey = key
		}
	}
}

// WithRememberKey overrides the client token key for the remember token.
func WithRememberKey(key string) GuardOption {
	return func(g *SessionGuard) {
		if key != "" {
			g.rememberKey = key
		}
	}
}

// WithTokenLength overrides the generated remember token length.
func WithTokenLength(length int) GuardOption {
	return func(g *SessionGuard) {
		if length > 0 {
			g.tokenLength = length
		}
	}
}

// WithTokenGenerator injects a custom remember token generator (useful
// in tests).
func WithTokenGenerator(generate TokenGenerator) GuardOption {
	return func(g *SessionGuard) {
		if generate != nil {
			g.generate = generate
		}
	}
}

// WithGuardLogger overrides the guard logger.
func WithGuardLogger(logger Logger) GuardOption {
	return func(g *SessionGuard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewSessionGuard returns a guard wired to the given provider and
// request-scoped state.
func NewSessionGuard(provider UserProvider, session SessionStore, tokens ClientTokenStore, opts ...GuardOption) *SessionGuard {
	g := &SessionGuard{
		provider:    provider,
		session:     session,
		tokens:      tokens,
		sessionKey:  DefaultSessionKey,
		rememberKey: DefaultRememberKey,
		tokenLength: DefaultTokenLength,
		generate:    GenerateToken,
		logger:      defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Validate resolves a user by uid and verifies the password against the
// stored hash. It never mutates guard state.
func (g *SessionGuard) Validate(ctx context.Context, uid, password string) (Identity, error) {
	user, err := g.provider.FindByUID(ctx, uid)
	if err != nil {
		if IsUserNotFound(err) {
			return nil, ErrIdentityNotFound.WithMetadata(map[string]any{
				"key": "uid",
				"uid": uid,
			})
		}
		return nil, err
	}

	ok, err := g.provider.VerifyPassword(ctx, user, password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrPasswordMismatch.WithMetadata(map[string]any{"uid": uid})
	}

	return user, nil
}

// Attempt is Validate followed by Login; either step's failure is
// propagated unchanged.
func (g *SessionGuard) Attempt(ctx context.Context, uid, password string) (Identity, error) {
	user, err := g.Validate(ctx, uid, password)
	if err != nil {
		return nil, err
	}

	return g.Login(ctx, user)
}

// Remember arms a remember token lifetime for the next Login call. The
// value follows ParseRememberDuration semantics; the armed lifetime is
// consumed exactly once.
func (g *SessionGuard) Remember(value any) error {
	duration, err := ParseRememberDuration(value)
	if err != nil {
		return err
	}

	g.remember.arm(duration)
	return nil
}

// RememberFor arms an explicit remember token lifetime for the next
// Login call.
func (g *SessionGuard) RememberFor(duration time.Duration) *SessionGuard {
	g.remember.arm(duration)
	return g
}

// Login establishes the session for user. It is the only place guard
// state is mutated and the only place remember tokens are minted.
func (g *SessionGuard) Login(ctx context.Context, user Identity) (Identity, error) {
	// consumed exactly once per login call, even when the call fails or
	// no token gets minted
	duration, _ := g.remember.takeAndReset()

	if g.user != nil {
		return nil, ErrAlreadyAuthenticated.WithMetadata(map[string]any{
			"user_id": g.user.ID(),
		})
	}

	if user == nil || user.ID() == "" {
		return nil, ErrMissingIdentifier
	}

	g.user = user
	g.viaRemember = false

	var token string
	if duration > 0 {
		var err error
		if token, err = g.generate(g.tokenLength); err != nil {
			return nil, err
		}

		if err := g.provider.SaveRememberToken(ctx, user, token); err != nil {
			return nil, err
		}
	}

	if err := g.session.Put(ctx, g.sessionKey, user.ID()); err != nil {
		return nil, err
	}

	if token != "" {
		if err := g.tokens.Set(ctx, g.rememberKey, token, duration); err != nil {
			return nil, err
		}
	}

	g.logger.Debug("login established", "user_id", user.ID(), "remembered", token != "")

	return user, nil
}

// LoginViaID resolves a user by primary key and logs it in.
func (g *SessionGuard) LoginViaID(ctx context.Context, id string) (Identity, error) {
	user, err := g.provider.FindByID(ctx, id)
	if err != nil {
		if IsUserNotFound(err) {
			return nil, ErrIdentityNotFound.WithMetadata(map[string]any{
				"key": "id",
				"id":  id,
			})
		}
		return nil, err
	}

	return g.Login(ctx, user)
}

// Logout clears the in-memory state, forgets the session key, and clears
// the client-held remember token. Calling it on an anonymous guard is a
// no-op.
func (g *SessionGuard) Logout(ctx context.Context) error {
	g.user = nil
	g.viaRemember = false

	if err := g.session.Forget(ctx, g.sessionKey); err != nil {
		return err
	}

	return g.tokens.Clear(ctx, g.rememberKey)
}

// Check is the re-authentication entry point, called once per request
// before any authorization decision. Absence of a user is a false
// result, never an error; collaborator I/O failures propagate.
func (g *SessionGuard) Check(ctx context.Context) (bool, error) {
	if g.user != nil {
		return true, nil
	}

	id, ok, err := g.session.Get(ctx, g.sessionKey)
	if err != nil {
		return false, err
	}

	if ok && id != "" {
		user, err := g.provider.FindByID(ctx, id)
		if err != nil {
			if IsUserNotFound(err) {
				return false, nil
			}
			return false, err
		}

		g.user = user
		return user != nil, nil
	}

	token, ok, err := g.tokens.Get(ctx, g.rememberKey)
	if err != nil {
		return false, err
	}

	if !ok || token == "" {
		return false, nil
	}

	user, err := g.provider.FindByRememberToken(ctx, token)
	if err != nil {
		if IsUserNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if user == nil {
		return false, nil
	}

	// a real re-login: writes a fresh session key. The remember duration
	// is not re-armed here, so the client token's expiry is never
	// refreshed on this path; the remember lifetime stays bounded.
	if _, err := g.Login(ctx, user); err != nil {
		return false, err
	}

	g.viaRemember = true
	return true, nil
}

// User runs Check for its side effect, then returns the current user
// (nil when anonymous).
func (g *SessionGuard) User(ctx context.Context) (Identity, error) {
	if _, err := g.Check(ctx); err != nil {
		return nil, err
	}

	return g.user, nil
}

// CurrentUser returns the resolved user without touching collaborators.
func (g *SessionGuard) CurrentUser() Identity {
	return g.user
}

// ViaRemember reports whether the current authentication was
// re-established from a remember token rather than the session key.
func (g *SessionGuard) ViaRemember() bool {
	return g.viaRemember
}

// SessionKey returns the persisted-state key the guard writes the user
// id under.
func (g *SessionGuard) SessionKey() string {
	return g.sessionKey
}

// RememberKey returns the client token key the remember token is written
// under.
func (g *SessionGuard) RememberKey() string {
	return g.rememberKey
}
