package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/mentorme/internal/config"
)

// AuthService configures the Clerk SDK. The key is only set when
// authentication is enabled; the router asks middleware.AuthMiddleware
// whether to guard routes.
type AuthService struct{}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	if cfg.Enabled {
		clerk.SetKey(cfg.SecretKey)
	}
	return &AuthService{}
}
