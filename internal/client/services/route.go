package services

import (
	"errors"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
)

// Route identifies a page of the application.
type Route string

const (
	RouteRegister             Route = "/"
	RouteLogin                Route = "/login"
	RouteHome                 Route = "/home"
	RouteTokenWithUserDetails Route = "/token-with-user-details"
	RouteUpdateWithoutToken   Route = "/update-without-token"
	RouteTokenWithUpdate      Route = "/token-with-update"
	RouteCards                Route = "/cards"
)

// Outcome is the result of a flow that completed normally.
type Outcome struct {
	// Next is the page to show, or "" to stay on the current one.
	Next Route
	// Replace drops the current page from history.
	Replace bool
	// Notice is a one-off message for the user.
	Notice string
	// Profile is the fresh profile record when the flow produced one.
	Profile *models.UserProfile
}

// RedirectError ends a flow with a forced navigation.
type RedirectError struct {
	To      Route
	Replace bool
	Reason  string
	Err     error
}

func (e *RedirectError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "redirect to " + string(e.To)
}

func (e *RedirectError) Unwrap() error { return e.Err }

// AsRedirect extracts a *RedirectError from err.
func AsRedirect(err error) (*RedirectError, bool) {
	var r *RedirectError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
