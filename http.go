package guard

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// GuardLocalsKey is where RequireAuth stashes the request guard.
const GuardLocalsKey = "guard"

// ErrUnauthenticated is what RequireAuth hands its error handler when no
// session or remember token authenticates the request.
var ErrUnauthenticated = goerrors.New("authentication required", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

var (
	_ ClientTokenStore = (*CookieTokenStore)(nil)
	_ SessionStore     = (*CookieSession)(nil)
)

// CookieTokenStore implements ClientTokenStore over the response/request
// cookies of one router.Context.
type CookieTokenStore struct {
	ctx router.Context
}

// NewCookieTokenStore returns a cookie-backed client token store bound
// to the given request context.
func NewCookieTokenStore(c router.Context) *CookieTokenStore {
	return &CookieTokenStore{ctx: c}
}

func (s *CookieTokenStore) Set(_ context.Context, key, value string, expiresIn time.Duration) error {
	s.ctx.Cookie(&router.Cookie{
		Name:     key,
		Value:    value,
		Expires:  time.Now().Add(expiresIn),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	return nil
}

func (s *CookieTokenStore) Get(_ context.Context, key string) (string, bool, error) {
	value := s.ctx.Cookies(key)
	return value, value != "", nil
}

func (s *CookieTokenStore) Clear(_ context.Context, key string) error {
	s.ctx.Cookie(&router.Cookie{
		Name:     key,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	return nil
}

// CookieSession implements SessionStore over session-lived cookies. Wrap
// it with your session middleware when values need to be signed or kept
// server side.
type CookieSession struct {
	ctx router.Context
}

// NewCookieSession returns a cookie-backed session store bound to the
// given request context.
func NewCookieSession(c router.Context) *CookieSession {
	return &CookieSession{ctx: c}
}

func (s *CookieSession) Put(_ context.Context, key, value string) error {
	s.ctx.Cookie(&router.Cookie{
		Name:     key,
		Value:    value,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	return nil
}

func (s *CookieSession) Get(_ context.Context, key string) (string, bool, error) {
	value := s.ctx.Cookies(key)
	return value, value != "", nil
}

func (s *CookieSession) Forget(_ context.Context, key string) error {
	s.ctx.Cookie(&router.Cookie{
		Name:     key,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	return nil
}

// GuardFactory builds the per-request guard for a router context.
type GuardFactory func(c router.Context) *SessionGuard

// RouteGuard adapts a SessionGuard to go-router handlers: login/logout
// endpoints plus a middleware that re-authenticates each request.
type RouteGuard struct {
	factory      GuardFactory
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

// NewRouteGuard returns a RouteGuard that builds one guard per request
// through factory.
func NewRouteGuard(factory GuardFactory) *RouteGuard {
	rg := &RouteGuard{
		factory: factory,
		Logger:  defLogger{},
	}
	rg.ErrorHandler = rg.defaultErrHandler
	return rg
}

// Login validates the payload, arms remember-me when requested, and
// attempts the login.
func (rg *RouteGuard) Login(c router.Context, payload LoginPayload) (Identity, error) {
	g := rg.factory(c)

	if err := g.Remember(payload.GetRemember()); err != nil {
		return nil, err
	}

	user, err := g.Attempt(c.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		rg.Logger.Error("Login error", "error", err)
		return nil, err
	}

	return user, nil
}

// Logout tears down the session for the current request.
func (rg *RouteGuard) Logout(c router.Context) error {
	return rg.factory(c).Logout(c.Context())
}

// RequireAuth re-authenticates the request, rejecting it when neither
// the session key nor a remember token resolves a user. The resolved
// identity lands in the request context and the guard in Locals.
func (rg *RouteGuard) RequireAuth() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			g := rg.factory(c)

			ok, err := g.Check(c.Context())
			if err != nil {
				return rg.ErrorHandler(c, err)
			}

			if !ok {
				return rg.ErrorHandler(c, ErrUnauthenticated)
			}

			c.SetContext(WithContext(c.Context(), g.CurrentUser()))
			c.Locals(GuardLocalsKey, g)

			return next(c)
		}
	}
}

func (rg *RouteGuard) defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	rg.Logger.Info(
		"Guard middleware rejecting request",
		"error", richErr.Message,
		"path", c.OriginalURL(),
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	return c.JSON(richErr.Code, map[string]any{
		"error": richErr.Message,
	})
}

// GuardFromRouter recovers the request guard stored by RequireAuth.
func GuardFromRouter(c router.Context) (*SessionGuard, bool) {
	raw := c.Locals(GuardLocalsKey)
	if raw == nil {
		return nil, false
	}
	g, ok := raw.(*SessionGuard)
	return g, ok
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
	RememberMe any    `form:"remember_me" json:"remember_me"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// GetRemember returns the raw remember-me request; the guard parses it.
func (r LoginRequest) GetRemember() any {
	return r.RememberMe
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}
