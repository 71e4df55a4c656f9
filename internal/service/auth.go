package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizdeck/quizdeck/internal/model"
	"github.com/quizdeck/quizdeck/internal/store"
)

// Rejection sentinels. Login failures are deliberately indistinguishable:
// unknown username, wrong password, and deactivated account all surface as
// ErrInvalidCredentials so the API cannot be used to enumerate accounts.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrBadSignature       = errors.New("token signature invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrIdentityInactive   = errors.New("identity inactive")
)

const bcryptCost = 12

// LoginResult is a successful authentication: the admin plus a fresh
// bearer token and its expiry.
type LoginResult struct {
	Admin     *model.Admin
	Token     string
	ExpiresAt time.Time
}

// AuthService issues and verifies admin bearer tokens (HS256 JWT) and
// checks passwords against stored bcrypt hashes. Tokens are stateless:
// there is no server-side session, and rotating the secret invalidates
// every outstanding token at once.
type AuthService struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(st *store.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		store:  st,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login checks the credentials and issues a token for the matching active
// admin account.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.store.GetActiveAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.IssueToken(admin)
	if err != nil {
		return nil, err
	}

	// Best effort; a failed timestamp update must not fail the login.
	_ = s.store.TouchAdminLogin(ctx, admin.ID)

	return &LoginResult{Admin: admin, Token: token, ExpiresAt: expiresAt}, nil
}

// IssueToken creates a signed token for the admin. The same admin, expiry,
// and secret always produce the same token string.
func (s *AuthService) IssueToken(admin *model.Admin) (string, time.Time, error) {
	expiresAt := s.now().Add(s.ttl)
	claims := tokenClaims{
		Role: admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(admin.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyToken checks a presented token end to end: structure, signature,
// expiry, and finally the account behind it. The admin row is re-fetched
// on every call so deactivation and role changes take effect immediately,
// at the price of one lookup per request.
//
// The expiry boundary is exclusive: a token whose exp equals the current
// time is already expired. Claims validation is done here rather than by
// the JWT library to keep that boundary and the clock injectable.
func (s *AuthService) VerifyToken(ctx context.Context, tokenStr string) (*model.Admin, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrBadSignature
		}
		return nil, ErrTokenMalformed
	}

	if claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	adminID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIdentityInactive
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrIdentityInactive
	}
	return admin, nil
}

// VerifyPassword checks a plaintext password against a stored hash.
// Profile updates use this to re-confirm the current password before
// accepting a new one.
func (s *AuthService) VerifyPassword(hash, password string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
