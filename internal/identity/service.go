package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/servicehub-gateway/pkg/enums"
	pkgerrors "github.com/angelmondragon/servicehub-gateway/pkg/errors"
	"github.com/angelmondragon/servicehub-gateway/pkg/logger"
)

const (
	mePath       = "/api/auth/me"
	collaborator = "identity"
)

var validate = validator.New()

// Service resolves session tokens into users.
type Service interface {
	Resolve(ctx context.Context, token string) (*User, error)
	Invalidate(ctx context.Context, userID string) error
}

type jsonGetter interface {
	GetJSON(ctx context.Context, collaborator, path, token string, dest any) error
}

type service struct {
	backend jsonGetter
	cache   *cache
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an identity service.
type ServiceParams struct {
	Backend  jsonGetter
	Cache    Store
	CacheTTL time.Duration
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewService constructs a resolver. Cache is optional; a nil store or zero TTL disables it.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, errors.New("backend client is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		backend: params.Backend,
		cache:   newCache(params.Cache, params.CacheTTL),
		logg:    params.Logger,
		now:     now,
	}, nil
}

// Resolve returns NO_TOKEN for an empty token and INVALID_TOKEN for anything the
// identity endpoint does not confirm, including transport failures.
func (s *service) Resolve(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNoToken, "missing session token")
	}

	if s.expired(token) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidToken, "session token expired")
	}

	hash := hashToken(token)
	if user, ok := s.cache.get(ctx, hash); ok {
		return user, nil
	}

	var resp meResponse
	if err := s.backend.GetJSON(ctx, collaborator, mePath, token, &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "resolve user")
	}
	if resp.User == nil {
		msg := "identity response missing user"
		if resp.Error != "" {
			msg = resp.Error
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidToken, msg)
	}
	resp.User.ID = strings.TrimSpace(resp.User.ID)
	resp.User.Role = strings.TrimSpace(resp.User.Role)
	if err := validate.Struct(resp.User); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "malformed identity payload")
	}

	// Unknown roles still resolve; the guard turns them into a login redirect.
	role, err := enums.ParseRole(resp.User.Role)
	if err != nil {
		role = enums.Role(resp.User.Role)
	}
	user := &User{ID: resp.User.ID, Role: role}

	if err := s.cache.put(ctx, hash, user); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "identity.cache.write_failed")
	}
	return user, nil
}

// Invalidate drops every cached resolution recorded for userID.
func (s *service) Invalidate(ctx context.Context, userID string) error {
	return s.cache.invalidate(ctx, userID)
}

// expired reports whether token is a JWT whose exp has already passed.
// Opaque tokens are never considered expired here.
func (s *service) expired(token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
