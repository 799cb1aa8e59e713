// Package session signs users in and out with JWT bearer tokens. Sign-out
// revokes the token id until the token would have expired anyway.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/clinica-otica/internal/access"
	"github.com/BruksfildServices01/clinica-otica/internal/cache"
	"github.com/BruksfildServices01/clinica-otica/internal/httperr"
	"github.com/BruksfildServices01/clinica-otica/internal/models"
	"github.com/BruksfildServices01/clinica-otica/internal/store"
	"github.com/BruksfildServices01/clinica-otica/internal/validators"
)

const revokedPrefix = "revoked:"

// Profile is the signed-in user as the rest of the app sees it.
type Profile struct {
	ID       uint        `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     access.Role `json:"role"`
	BranchID *uint       `json:"branch_id"`
	Active   bool        `json:"active"`
}

func ProfileOf(u *models.User) Profile {
	return Profile{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     access.Role(u.Role),
		BranchID: u.BranchID,
		Active:   u.Active,
	}
}

func (p Profile) Can(c access.Capability) bool {
	return access.HasCapability(p.Role, c)
}

// CanSeeBranch is true for users without a branch scope or scoped to branchID.
func (p Profile) CanSeeBranch(branchID uint) bool {
	if p.BranchID == nil || access.SpansAllBranches(p.Role) {
		return true
	}
	return *p.BranchID == branchID
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Profile   `json:"user"`
}

type Claims struct {
	Role     string `json:"role"`
	BranchID *uint  `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	users  store.Table[models.User]
	denied cache.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(users store.Table[models.User], denied cache.Store, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		users:  users,
		denied: denied,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	rows, err := s.users.Select(ctx, store.Query{
		Filters: []store.Filter{store.Where("email", validators.NormalizeEmail(email))},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	user := &rows[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}
	if !user.Active {
		return nil, httperr.ErrBusiness("user_inactive")
	}

	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Role:     user.Role,
		BranchID: user.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{Token: token, ExpiresAt: exp, User: ProfileOf(user)}, nil
}

// SignOut revokes token. Signing out an already invalid token is a no-op.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.denied.Set(ctx, revokedPrefix+claims.ID, "1", ttl)
}

// GetUser validates token and reloads the profile, so role and active flag
// changes apply on the next request.
func (s *Service) GetUser(ctx context.Context, token string) (*Profile, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	_, err = s.denied.Get(ctx, revokedPrefix+claims.ID)
	switch {
	case err == nil:
		return nil, httperr.ErrBusiness("session_revoked")
	case !errors.Is(err, cache.ErrMiss):
		return nil, fmt.Errorf("check revocation: %w", err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_token")
	}

	user, err := s.users.Get(ctx, uint(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, httperr.ErrBusiness("invalid_token")
	}
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, httperr.ErrBusiness("user_inactive")
	}

	p := ProfileOf(user)
	return &p, nil
}

func (s *Service) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_token")
	}
	return claims, nil
}

// HashPassword hashes a new password; at least 6 characters.
func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", httperr.ErrBusinessMsg("weak_password", "A senha deve ter ao menos 6 caracteres.")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
