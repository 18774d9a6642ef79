package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// UpdateVariant names one of the two update endpoints.
type UpdateVariant int

const (
	// ViaToken identifies the user by the token alone (PUT updateWithToken).
	ViaToken UpdateVariant = iota
	// ViaUserID passes the user id in the query (PUT updateUser?userId=).
	ViaUserID
)

// ProfileService defines the profile pages.
//
// Every successful read refreshes the cached profile. Every call that
// carries a token routes authorization failures through the guard, so a 401
// always ends in a cleared store and a redirect to /login.
type ProfileService interface {
	// Home fetches the profile by user id, sending the token if there is one.
	Home(ctx context.Context) (*models.UserProfile, error)
	// Details fetches the profile by token.
	Details(ctx context.Context) (*models.UserProfile, error)
	// EditForm loads the record an update page starts from.
	EditForm(ctx context.Context, v UpdateVariant) (*models.UserProfile, error)

	UpdateWithToken(ctx context.Context, p models.UserProfile) (Outcome, error)
	UpdateByUserID(ctx context.Context, p models.UserProfile) (Outcome, error)

	// UpdatePhoto uploads photo and then fetches the refreshed profile.
	// A nil photo means nothing was selected.
	UpdatePhoto(ctx context.Context, photo *models.ImageFile) (Outcome, error)

	// DeleteAccount asks c first and does nothing unless the user agrees.
	DeleteAccount(ctx context.Context, c Confirmer) (Outcome, error)
}

type profileService struct {
	client client.Client
	store  *SessionStore
	guard  *Guard
	logger logging.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(c client.Client, store *SessionStore, guard *Guard, logger logging.Logger) ProfileService {
	return &profileService{client: c, store: store, guard: guard, logger: logger}
}

const (
	msgFetchRejected     = "Failed to fetch user details"
	msgFetchFailed       = "Error fetching user details"
	msgProfileUpdated    = "Profile updated successfully!"
	msgUpdateRejected    = "Failed to update user details"
	msgUpdateFailed      = "Error updating user details"
	msgTokenUpdateFailed = "Failed to update profile"
	msgNoPhoto           = "Please select a photo first"
	msgNotAnImage        = "Please select an image file"
	msgPhotoTooLarge     = "File size should be less than 5MB"
	msgPhotoFailed       = "Failed to update photo. Please try again."
	msgPhotoUpdated      = "Profile photo updated successfully!"
	msgDeleteFailed      = "Failed to delete account"
	msgAccountDeleted    = "Account deleted successfully!"
)

// ValidatePhoto checks a file picked as the new profile photo.
func ValidatePhoto(f models.ImageFile) error {
	if !f.IsImage() {
		return invalid(msgNotAnImage)
	}
	if f.Size > common.MaxImageSize {
		return invalid(msgPhotoTooLarge)
	}
	return nil
}

// PhotoSelection holds the photo picked for upload. A rejected pick leaves
// the previous selection in place.
type PhotoSelection struct {
	file *models.ImageFile
}

// Select validates f and makes it the current selection.
func (s *PhotoSelection) Select(f models.ImageFile) error {
	if err := ValidatePhoto(f); err != nil {
		return err
	}
	s.file = &f
	return nil
}

// Selected returns the current selection or nil.
func (s *PhotoSelection) Selected() *models.ImageFile { return s.file }

// Reset drops the selection.
func (s *PhotoSelection) Reset() { s.file = nil }

func (s *profileService) fetch(ctx context.Context, req Requirement, get func(models.Session) (*models.UserProfile, error)) (*models.UserProfile, error) {
	sess, err := s.guard.Require(ctx, req)
	if err != nil {
		return nil, err
	}

	p, err := get(sess)
	if err != nil {
		if err := s.guard.Check(ctx, err); isRedirect(err) {
			return nil, err
		}
		return nil, rejectedOr(err, msgFetchRejected, msgFetchFailed)
	}

	if err := s.store.CacheProfile(ctx, *p); err != nil {
		s.logger.Warn(ctx, "failed to cache profile", "error", err)
	}
	return p, nil
}

func (s *profileService) byUserID(ctx context.Context) func(models.Session) (*models.UserProfile, error) {
	return func(sess models.Session) (*models.UserProfile, error) {
		return s.client.GetUserDetails(ctx, sess.UserID, sess.Token)
	}
}

func (s *profileService) Home(ctx context.Context) (*models.UserProfile, error) {
	return s.fetch(ctx, HomeRequirement, s.byUserID(ctx))
}

func (s *profileService) Details(ctx context.Context) (*models.UserProfile, error) {
	return s.fetch(ctx, TokenDetailsRequirement, func(sess models.Session) (*models.UserProfile, error) {
		return s.client.Display(ctx, sess.Token)
	})
}

func (s *profileService) EditForm(ctx context.Context, v UpdateVariant) (*models.UserProfile, error) {
	req := UpdateWithoutTokenFetchRequirement
	if v == ViaToken {
		req = TokenWithUpdateRequirement
	}
	return s.fetch(ctx, req, s.byUserID(ctx))
}

func (s *profileService) UpdateWithToken(ctx context.Context, p models.UserProfile) (Outcome, error) {
	return s.update(ctx, TokenWithUpdateRequirement, msgTokenUpdateFailed, msgTokenUpdateFailed, true,
		func(sess models.Session) (*client.UpdateResult, error) {
			return s.client.UpdateWithToken(ctx, sess.Token, p)
		})
}

func (s *profileService) UpdateByUserID(ctx context.Context, p models.UserProfile) (Outcome, error) {
	return s.update(ctx, UpdateWithoutTokenRequirement, msgUpdateRejected, msgUpdateFailed, false,
		func(sess models.Session) (*client.UpdateResult, error) {
			return s.client.UpdateUser(ctx, sess.UserID, sess.Token, p)
		})
}

// update submits the record and then makes the cache match the server.
// The refetch only starts after the update call returned success. With
// useEcho the record returned by the update is cached instead, when there
// is one.
func (s *profileService) update(ctx context.Context, req Requirement, rejected, fallback string, useEcho bool,
	submit func(models.Session) (*client.UpdateResult, error)) (Outcome, error) {
	sess, err := s.guard.Require(ctx, req)
	if err != nil {
		return Outcome{}, err
	}

	res, err := submit(sess)
	if err != nil {
		if err := s.guard.Check(ctx, err); isRedirect(err) {
			return Outcome{}, err
		}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Rejected() {
			return Outcome{}, serverMessageOr(err, rejected)
		}
		return Outcome{}, serverMessageOr(err, fallback)
	}

	var fresh *models.UserProfile
	if useEcho && res.Profile != nil && res.Profile.HasIdentity() {
		fresh = res.Profile
	} else {
		fresh, err = s.client.GetUserDetails(ctx, sess.UserID, sess.Token)
		if err != nil {
			if err := s.guard.Check(ctx, err); isRedirect(err) {
				return Outcome{}, err
			}
			return Outcome{}, rejectedOr(err, msgFetchRejected, msgFetchFailed)
		}
	}

	if err := s.store.CacheProfile(ctx, *fresh); err != nil {
		return Outcome{}, fmt.Errorf("cache profile: %w", err)
	}

	s.logger.Info(ctx, "profile updated", "user_id", sess.UserID, "page", req.Page)
	return Outcome{Next: RouteHome, Replace: true, Notice: msgProfileUpdated, Profile: fresh}, nil
}

func (s *profileService) UpdatePhoto(ctx context.Context, photo *models.ImageFile) (Outcome, error) {
	if photo == nil {
		return Outcome{}, invalid(msgNoPhoto)
	}

	sess, err := s.guard.Require(ctx, PhotoUpdateRequirement)
	if err != nil {
		return Outcome{}, err
	}

	if err := ValidatePhoto(*photo); err != nil {
		return Outcome{}, err
	}

	if _, err := s.client.UpdatePhoto(ctx, sess.UserID, sess.Token, *photo); err != nil {
		if err := s.guard.Check(ctx, err); isRedirect(err) {
			return Outcome{}, err
		}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Rejected() {
			return Outcome{}, serverMessageOr(err, msgPhotoFailed)
		}
		return Outcome{}, &PageError{Message: msgPhotoFailed, Err: err}
	}

	s.logger.Info(ctx, "profile photo updated", "user_id", sess.UserID, "size", photo.Size)

	fresh, err := s.Home(ctx)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Notice: msgPhotoUpdated, Profile: fresh}, nil
}

func (s *profileService) DeleteAccount(ctx context.Context, c Confirmer) (Outcome, error) {
	if !confirmed(c, PromptDeleteAccount) {
		return Outcome{}, ErrCancelled
	}

	sess, err := s.guard.Require(ctx, DeleteAccountRequirement)
	if err != nil {
		return Outcome{}, err
	}

	if _, err := s.client.DeleteUser(ctx, sess.UserID, sess.Token); err != nil {
		if err := s.guard.Check(ctx, err); isRedirect(err) {
			return Outcome{}, err
		}
		return Outcome{}, rejectedOr(err, msgDeleteFailed, msgDeleteFailed)
	}

	if err := s.store.Clear(ctx); err != nil {
		return Outcome{}, fmt.Errorf("clear session: %w", err)
	}

	s.logger.Info(ctx, "account deleted", "user_id", sess.UserID)
	return Outcome{Next: RouteRegister, Replace: true, Notice: msgAccountDeleted}, nil
}

func isRedirect(err error) bool {
	_, ok := AsRedirect(err)
	return ok
}
