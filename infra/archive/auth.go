package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/CrestNiraj12/iav/domain"
)

// authService implements app.AuthService.
type authService struct {
	client *Client
}

// NewAuthService creates an AuthService backed by the archive API.
func NewAuthService(client *Client) *authService {
	return &authService{client: client}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", domain.ErrEmptyField
	}

	data, err := s.client.postJSON(ctx, "/api/v1/login", "", credentialsRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}

	var resp struct {
		Message string  `json:"message"`
		Token   *string `json:"token"`
	}
	if err := decodeJSON("login", data, &resp); err != nil {
		return "", err
	}
	if resp.Token == nil || strings.TrimSpace(*resp.Token) == "" {
		return "", schemaError("login", "missing token")
	}
	return strings.TrimSpace(*resp.Token), nil
}

func (s *authService) Register(ctx context.Context, fullName, email, password string) error {
	email = strings.TrimSpace(email)
	if strings.TrimSpace(fullName) == "" || email == "" || password == "" {
		return domain.ErrEmptyField
	}

	if _, err := s.client.postJSON(ctx, "/api/v1/register", "", credentialsRequest{Email: email, Password: password}); err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}
