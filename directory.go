package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// UserStore is the slice of the users repository the directory needs
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// MaxLoginAttempts is the maximun number of attempts a user gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// unknownUserHash keeps the bcrypt cost of an unknown-username lookup equal
// to that of a wrong password, so the two are not distinguishable by timing
var unknownUserHash = RandomPasswordHash()

// Directory is the database-backed UserDirectory. It is the single source of
// truth for current roles, enablement, and the password reset stamp.
type Directory struct {
	store  UserStore
	logger Logger
}

// DirectoryOption configures a Directory
type DirectoryOption func(*Directory)

// WithDirectoryLogger overrides the default logger
func WithDirectoryLogger(logger Logger) DirectoryOption {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDirectory creates a Directory backed by the given store
func NewDirectory(store UserStore, opts ...DirectoryOption) *Directory {
	if store == nil {
		panic("AUTH: directory configuration: UserStore is required.")
	}

	d := &Directory{
		store:  store,
		logger: defLogger{},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

var _ UserDirectory = (*Directory)(nil)

// FindByUsername resolves a username to its current identity
func (d *Directory) FindByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := d.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user")
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return newDirectoryIdentity(user), nil
}

// VerifyCredentials checks a username/password pair. Unknown users, wrong
// passwords, and disabled accounts all come back as the same mismatch error;
// only the cooldown is distinguishable.
func (d *Directory) VerifyCredentials(ctx context.Context, username, password string) (Identity, error) {
	user, err := d.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			ComparePasswordAndHash(password, unknownUserHash)
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		ComparePasswordAndHash(password, unknownUserHash)
		return nil, ErrMismatchedHashAndPassword
	}

	if user.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			user.LoginAttempts = 0
		}
	}

	// too many attempts in the window, cool off
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := d.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, ErrMismatchedHashAndPassword
	}

	if !user.Enabled {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := d.store.TrackSuccessfulLogin(ctx, user); err != nil {
		d.logger.Error("failed to track successful login: %v", err)
	}

	return newDirectoryIdentity(user), nil
}

type directoryIdentity struct {
	id       string
	username string
	roles    []Role
	enabled  bool
	resetAt  time.Time
}

func newDirectoryIdentity(user *User) directoryIdentity {
	return directoryIdentity{
		id:       user.ID.String(),
		username: user.Username,
		roles:    user.RoleList(),
		enabled:  user.Enabled,
		resetAt:  user.ResetStamp(),
	}
}

func (d directoryIdentity) ID() string {
	return d.id
}

func (d directoryIdentity) Username() string {
	return d.username
}

func (d directoryIdentity) Roles() []Role {
	return d.roles
}

func (d directoryIdentity) Enabled() bool {
	return d.enabled
}

func (d directoryIdentity) LastPasswordResetAt() time.Time {
	return d.resetAt
}

var _ Identity = directoryIdentity{}
