package service

import (
	"context"
	"log/slog"
	"strings"

	"budgeter/internal/auth"
	"budgeter/internal/models"
)

// AuthService handles user registration and login, issuing a signed
// token on success.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	if !strings.Contains(email, "@") {
		return nil, "", validationErr("email", "a valid email is required")
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, "", validationErr("display_name", "display name is required")
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.DebugContext(ctx, "user logged in", "user_id", user.ID)
	return user, token, nil
}
