package guard

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// UserStore is the slice of the Users repository the provider needs.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	FindByRememberToken(ctx context.Context, token string) (*User, error)
	SaveRememberToken(ctx context.Context, id uuid.UUID, token string) error
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// MaxLoginAttempts is the maximum number of attempts a user gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// RepositoryProvider is the database-row-backed UserProvider. Failed
// logins are tracked against the user row so repeated bad passwords
// trip a cool down; that policy lives here, not in the guard.
type RepositoryProvider struct {
	store  UserStore
	logger Logger
}

var _ UserProvider = (*RepositoryProvider)(nil)

// NewRepositoryProvider will create a new RepositoryProvider
func NewRepositoryProvider(store UserStore) *RepositoryProvider {
	return &RepositoryProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *RepositoryProvider) WithLogger(l Logger) *RepositoryProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

func (p *RepositoryProvider) FindByUID(ctx context.Context, uid string) (Identity, error) {
	user, err := p.store.GetByIdentifier(ctx, uid)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound.WithMetadata(map[string]any{
				"key": "uid",
				"uid": uid,
			})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user by uid")
	}

	return &userIdentity{user: user}, nil
}

func (p *RepositoryProvider) FindByID(ctx context.Context, id string) (Identity, error) {
	user, err := p.store.GetByIdentifier(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound.WithMetadata(map[string]any{
				"key": "id",
				"id":  id,
			})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user by id")
	}

	return &userIdentity{user: user}, nil
}

func (p *RepositoryProvider) FindByRememberToken(ctx context.Context, token string) (Identity, error) {
	user, err := p.store.FindByRememberToken(ctx, token)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound.WithMetadata(map[string]any{
				"key": "remember_token",
			})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user by remember token")
	}

	return &userIdentity{user: user}, nil
}

// VerifyPassword compares password to the stored hash. A mismatch is a
// false result, not an error; it also bumps the login attempt counter so
// the cool down can trip.
func (p *RepositoryProvider) VerifyPassword(ctx context.Context, user Identity, password string) (bool, error) {
	record, err := p.record(ctx, user)
	if err != nil {
		return false, err
	}

	if record.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*record.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			record.LoginAttempts = 0
		}
	}

	// if we have too many attempts in the given window, cool off!
	if record.LoginAttempts > MaxLoginAttempts {
		return false, ErrTooManyLoginAttempts.WithMetadata(map[string]any{
			"user_id": record.ID.String(),
		})
	}

	if err := ComparePasswordAndHash(password, record.PasswordHash); err != nil {
		if !IsPasswordMismatch(err) {
			return false, err
		}

		if err2 := p.store.TrackAttemptedLogin(ctx, record); err2 != nil {
			return false, goerrors.Wrap(err2, goerrors.CategoryInternal, "failed to track login attempt")
		}

		return false, nil
	}

	if err := p.store.TrackSuccessfulLogin(ctx, record); err != nil {
		p.logger.Error("failed to track successful login", "error", err)
	}

	return true, nil
}

func (p *RepositoryProvider) SaveRememberToken(ctx context.Context, user Identity, token string) error {
	id, err := IdentityUUID(user)
	if err != nil {
		return err
	}

	return p.store.SaveRememberToken(ctx, id, token)
}

// record resolves the backing row for an identity, avoiding a second
// lookup when the identity was produced by this provider.
func (p *RepositoryProvider) record(ctx context.Context, user Identity) (*User, error) {
	if ui, ok := user.(*userIdentity); ok && ui.user != nil {
		return ui.user, nil
	}

	record, err := p.store.GetByIdentifier(ctx, user.ID())
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound.WithMetadata(map[string]any{
				"key": "id",
				"id":  user.ID(),
			})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	return record, nil
}

type userIdentity struct {
	user *User
}

var _ Identity = (*userIdentity)(nil)

func (i *userIdentity) ID() string {
	if i.user == nil || i.user.ID == uuid.Nil {
		return ""
	}
	return i.user.ID.String()
}

func (i *userIdentity) UID() string {
	if i.user == nil {
		return ""
	}
	return i.user.Identifier()
}

// NewUserIdentity adapts a persisted User into the guard's Identity.
func NewUserIdentity(user *User) Identity {
	return &userIdentity{user: user}
}

// UserFromIdentity recovers the backing User row from an Identity
// produced by RepositoryProvider.
func UserFromIdentity(identity Identity) (*User, bool) {
	ui, ok := identity.(*userIdentity)
	if !ok || ui.user == nil {
		return nil, false
	}
	return ui.user, true
}
