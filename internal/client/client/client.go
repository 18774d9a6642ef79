package client

import (
	"context"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
)

// Client is the contract of the remote profile service. Every method that
// takes a token sends it verbatim in the Authorization header when non-empty.
type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)

	GetUserDetails(ctx context.Context, userID, token string) (*models.UserProfile, error)
	Display(ctx context.Context, token string) (*models.UserProfile, error)

	UpdateWithToken(ctx context.Context, token string, profile models.UserProfile) (*UpdateResult, error)
	UpdateUser(ctx context.Context, userID, token string, profile models.UserProfile) (*UpdateResult, error)
	UpdatePhoto(ctx context.Context, userID, token string, photo models.ImageFile) (string, error)

	DeleteUser(ctx context.Context, userID, token string) (string, error)

	DisplayCart(ctx context.Context, userID, token string) ([]models.CartItem, error)
}

// UpdateResult is what a successful update returns. Profile is nil when the
// server did not echo the stored record, including when "data" holds
// something other than a user record.
type UpdateResult struct {
	Message string
	Profile *models.UserProfile
}
