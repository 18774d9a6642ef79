package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// Policy decides what a page does when the session lacks what it needs.
type Policy int

const (
	// PolicyRedirect sends the user to the login page.
	PolicyRedirect Policy = iota
	// PolicyInlineError keeps the user on the page and shows Message.
	PolicyInlineError
)

func (p Policy) String() string {
	switch p {
	case PolicyRedirect:
		return "redirect"
	case PolicyInlineError:
		return "inline"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Requirement is what one page needs from the session store.
type Requirement struct {
	Page    Route
	UserID  bool
	Token   bool
	Policy  Policy
	Message string
}

// Page requirements. Pages disagree on redirect versus inline error; each
// keeps its own behaviour.
var (
	HomeRequirement = Requirement{
		Page: RouteHome, UserID: true,
		Policy: PolicyInlineError, Message: "User ID not found",
	}
	TokenDetailsRequirement = Requirement{
		Page: RouteTokenWithUserDetails, Token: true,
		Policy: PolicyInlineError, Message: "Authentication token not found",
	}
	UpdateWithoutTokenFetchRequirement = Requirement{
		Page: RouteUpdateWithoutToken, UserID: true,
		Policy: PolicyInlineError, Message: "User ID not found",
	}
	UpdateWithoutTokenRequirement = Requirement{
		Page: RouteUpdateWithoutToken, UserID: true, Token: true,
		Policy: PolicyInlineError, Message: "User ID or token not found",
	}
	TokenWithUpdateRequirement = Requirement{
		Page: RouteTokenWithUpdate, UserID: true, Token: true,
		Policy: PolicyRedirect, Message: "No token found. Please login again.",
	}
	PhotoUpdateRequirement = Requirement{
		Page: RouteHome, UserID: true, Token: true,
		Policy: PolicyRedirect, Message: "Authentication token not found. Please login again.",
	}
	DeleteAccountRequirement = Requirement{
		Page: RouteHome, UserID: true, Token: true,
		Policy: PolicyInlineError, Message: "User ID or token not found",
	}
	CartRequirement = Requirement{
		Page: RouteCards, UserID: true, Token: true,
		Policy: PolicyRedirect, Message: "Please login to view your cart.",
	}
)

const msgSessionExpired = "Token expired or invalid. Please login again."

// Guard checks the session before a flow talks to the server and reacts to
// authorization failures after it did.
type Guard struct {
	store  *SessionStore
	logger logging.Logger
}

// NewGuard returns a guard over store.
func NewGuard(store *SessionStore, logger logging.Logger) *Guard {
	return &Guard{store: store, logger: logger}
}

// Require returns the stored session when it satisfies req. Otherwise it
// returns a *RedirectError to /login or a *PageError wrapping
// ErrSessionMissing, depending on req.Policy.
func (g *Guard) Require(ctx context.Context, req Requirement) (models.Session, error) {
	s, err := g.store.Load(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}

	if (req.UserID && !s.HasUserID()) || (req.Token && !s.HasToken()) {
		g.logger.Info(ctx, "session incomplete", "page", req.Page, "policy", req.Policy.String())
		if req.Policy == PolicyRedirect {
			return models.Session{}, &RedirectError{To: RouteLogin, Reason: req.Message, Err: ErrSessionMissing}
		}
		return models.Session{}, &PageError{Message: req.Message, Err: ErrSessionMissing}
	}
	return s, nil
}

// Check passes err through unless it is an authorization failure. In that
// case the whole session store is cleared and a redirect to /login is
// returned instead.
func (g *Guard) Check(ctx context.Context, err error) error {
	if err == nil || !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	g.logger.Warn(ctx, "server rejected session, logging out", "error", err)
	if cerr := g.store.Clear(ctx); cerr != nil {
		g.logger.Error(ctx, "failed to clear session", "error", cerr)
		err = errors.Join(err, cerr)
	}
	return &RedirectError{To: RouteLogin, Reason: msgSessionExpired, Err: err}
}
