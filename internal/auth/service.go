package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/token"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-auth-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

const DefaultRole = "customer"

// UserStore is the credential store. Lookups return userrepo.ErrNotFound for
// unknown users and Create returns userrepo.ErrDuplicateEmail on conflict.
type UserStore interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// RefreshStore holds the one current refresh token per user.
type RefreshStore interface {
	Put(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

// Session is what signup and login hand to the transport: the public user
// plus the two tokens to be set as cookies.
type Session struct {
	User         entity.PublicUser
	AccessToken  string
	RefreshToken string
}

// Manager drives the session lifecycle. Only one refresh token per user is
// valid at a time: every login overwrites the stored one.
type Manager struct {
	users   UserStore
	hasher  user.PasswordHasher
	codec   *token.Codec
	refresh RefreshStore
	newID   func() string
}

func NewManager(users UserStore, hasher user.PasswordHasher, codec *token.Codec, refresh RefreshStore) *Manager {
	if hasher == nil {
		hasher = user.BcryptHasher{Cost: 12}
	}
	return &Manager{
		users:   users,
		hasher:  hasher,
		codec:   codec,
		refresh: refresh,
		newID:   utilities.NewSnowflakeID,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the account and opens its first session.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, newError(KindValidation, msgSignupFieldsRequired)
	}

	_, err := m.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, newError(KindConflict, msgUserExists)
	case !errors.Is(err, userrepo.ErrNotFound):
		return nil, serverError(err)
	}

	if len(password) > user.MaxPasswordBytes {
		return nil, newError(KindValidation, msgPasswordTooLong)
	}
	hash, err := m.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, user.ErrPasswordTooLong) {
			return nil, newError(KindValidation, msgPasswordTooLong)
		}
		return nil, serverError(err)
	}
	u := &entity.User{
		ID:           m.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         DefaultRole,
	}
	if err := m.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, newError(KindConflict, msgUserExists)
		}
		return nil, serverError(err)
	}
	return m.openSession(ctx, u)
}

// Login checks credentials and replaces any earlier session of the user.
// Unknown email and wrong password fail identically.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, newError(KindValidation, msgLoginFieldsRequired)
	}

	u, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, newError(KindUnauthorized, msgBadCredentials)
		}
		return nil, serverError(err)
	}
	if !m.hasher.Verify(u.PasswordHash, password) {
		return nil, newError(KindUnauthorized, msgBadCredentials)
	}
	return m.openSession(ctx, u)
}

func (m *Manager) openSession(ctx context.Context, u *entity.User) (*Session, error) {
	access, err := m.codec.Issue(u.ID, token.Access)
	if err != nil {
		return nil, serverError(err)
	}
	refresh, err := m.codec.Issue(u.ID, token.Refresh)
	if err != nil {
		return nil, serverError(err)
	}
	if err := m.refresh.Put(ctx, u.ID, refresh, m.codec.TTL(token.Refresh)); err != nil {
		return nil, serverError(err)
	}
	return &Session{User: u.Public(), AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revokes the user's stored refresh token. The presented token only
// needs a valid signature; it does not have to be the current one.
func (m *Manager) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return newError(KindBadRequest, msgNoRefreshLogout)
	}
	userID, err := m.codec.Verify(refreshToken, token.Refresh)
	if err != nil {
		return &Error{Kind: KindUnauthorized, Message: msgInvalidRefresh, Err: err}
	}
	if err := m.refresh.Delete(ctx, userID); err != nil {
		return serverError(err)
	}
	return nil
}

// Refresh issues a new access token if refreshToken is the user's current one.
// The refresh token itself and its stored TTL are left untouched.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", newError(KindUnauthorized, msgNoRefreshToken)
	}
	userID, err := m.codec.Verify(refreshToken, token.Refresh)
	if err != nil {
		return "", &Error{Kind: KindUnauthorized, Message: msgInvalidRefresh, Err: err}
	}
	stored, err := m.refresh.Get(ctx, userID)
	if err != nil {
		return "", serverError(err)
	}
	// stored is "" after logout or TTL expiry
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return "", newError(KindForbidden, msgRefreshRevoked)
	}
	access, err := m.codec.Issue(userID, token.Access)
	if err != nil {
		return "", serverError(err)
	}
	return access, nil
}

// Authenticate resolves an access token to its user. Access tokens are not
// checked against the refresh store; they simply expire.
func (m *Manager) Authenticate(ctx context.Context, accessToken string) (entity.PublicUser, error) {
	if accessToken == "" {
		return entity.PublicUser{}, newError(KindUnauthorized, msgNoAccessToken)
	}
	userID, err := m.codec.Verify(accessToken, token.Access)
	if err != nil {
		return entity.PublicUser{}, &Error{Kind: KindUnauthorized, Message: msgInvalidAccess, Err: err}
	}
	u, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return entity.PublicUser{}, newError(KindUnauthorized, msgUserNotFound)
		}
		return entity.PublicUser{}, serverError(err)
	}
	return u.Public(), nil
}

// Profile returns the identity Authenticate attached to ctx.
func (m *Manager) Profile(ctx context.Context) (entity.PublicUser, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return entity.PublicUser{}, serverError(errors.New("no authenticated user in request context"))
	}
	return u, nil
}
