package token

import (
	"fmt"

	"github.com/jrsteele09/homecare-session/internal/config"
	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/token/jwt"
	"github.com/jrsteele09/homecare-session/token/refresh"
	"github.com/jrsteele09/homecare-session/users"
)

// Manager issues and validates the API's token pairs
type Manager struct {
	userRepo  users.UserRepo
	creator   *jwt.Creator
	inspector *jwt.Inspector
	refresh   *refresh.Manager
}

func NewManager(cfg config.TokenConfig, userRepo users.UserRepo, refreshRepo refresh.Repo) *Manager {
	signer := jwt.NewHMACSigner(cfg.GetSigningSecret())
	return &Manager{
		userRepo:  userRepo,
		creator:   jwt.NewCreator(cfg, signer),
		inspector: jwt.NewInspector(signer, cfg.GetIssuer()),
		refresh:   refresh.NewManager(refreshRepo, cfg),
	}
}

// Issue creates a fresh access/refresh pair for user, invalidating any earlier refresh token
func (m *Manager) Issue(user *users.User) (Pair, error) {
	access, err := m.creator.CreateAccessToken(user)
	if err != nil {
		return Pair{}, fmt.Errorf("Manager.Issue CreateAccessToken: %w", err)
	}
	refreshToken, err := m.refresh.Create(user)
	if err != nil {
		return Pair{}, fmt.Errorf("Manager.Issue CreateRefreshToken: %w", err)
	}
	return Pair{Access: access, Refresh: refreshToken}, nil
}

// Refresh mints a new access token. The refresh token itself is left in place.
func (m *Manager) Refresh(refreshToken string) (string, error) {
	rt, err := m.refresh.Validate(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := m.userRepo.GetByID(rt.UserID)
	if err != nil {
		return "", fmt.Errorf("user not found for refresh token: %w", err)
	}
	if user.Blocked {
		_ = m.refresh.Delete(refreshToken)
		return "", autherrors.ErrUserBlocked
	}

	access, err := m.creator.CreateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to create access token: %w", err)
	}
	return access, nil
}

// Verify validates a bearer token and returns its claims
func (m *Manager) Verify(accessToken string) (*jwt.Claims, error) {
	return m.inspector.Introspect(accessToken)
}

// InvalidateRefreshToken drops a refresh token so later refreshes fail
func (m *Manager) InvalidateRefreshToken(refreshToken string) {
	_ = m.refresh.Delete(refreshToken)
}
