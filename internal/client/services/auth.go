package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// AuthService defines the sign-up, login and logout flows.
//
// Contract:
//   - Register: create an account; on success the user goes to /login.
//   - Login: exchange credentials for a session and persist it; on success
//     the user goes to /home. A failed login leaves the store untouched.
//   - Logout: clear the session store and go to /login.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (Outcome, error)
	Login(ctx context.Context, creds models.Credentials) (Outcome, error)
	Logout(ctx context.Context) (Outcome, error)
}

type authService struct {
	client client.Client
	store  *SessionStore
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(c client.Client, store *SessionStore, logger logging.Logger) AuthService {
	return &authService{client: c, store: store, logger: logger}
}

const (
	msgRegistrationFailed = "Registration failed"
	msgRegistered         = "Registration successful!"
	msgLoginFailed        = "Login failed"
	msgLoggedIn           = "Login successful!"
)

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (Outcome, error) {
	req.ApplyDefaults()

	if _, err := a.client.Register(ctx, req); err != nil {
		a.logger.Info(ctx, "registration failed", "email", req.Email, "error", err)
		return Outcome{}, serverMessageOr(err, msgRegistrationFailed)
	}

	a.logger.Info(ctx, "registered", "email", req.Email)
	return Outcome{Next: RouteLogin, Notice: msgRegistered}, nil
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) (Outcome, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return Outcome{}, invalid("Email and password are required")
	}

	s, err := a.client.Login(ctx, creds)
	if err != nil {
		a.logger.Info(ctx, "login failed", "email", creds.Email, "error", err)
		return Outcome{}, serverMessageOr(err, msgLoginFailed)
	}

	if err := a.store.Save(ctx, s); err != nil {
		return Outcome{}, fmt.Errorf("save session: %w", err)
	}

	a.logger.Info(ctx, "logged in", "user_id", s.UserID)
	return Outcome{Next: RouteHome, Notice: msgLoggedIn}, nil
}

func (a *authService) Logout(ctx context.Context) (Outcome, error) {
	if err := a.store.Clear(ctx); err != nil {
		return Outcome{}, fmt.Errorf("clear session: %w", err)
	}
	a.logger.Info(ctx, "logged out")
	return Outcome{Next: RouteLogin}, nil
}
