package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(e *env) ProfileService {
	return NewProfileService(e.client, e.store, e.guard, logging.Discard())
}

func cached(t *testing.T, e *env) *models.UserProfile {
	t.Helper()
	p, err := e.store.CachedProfile(context.Background())
	require.NoError(t, err)
	return p
}

func pageMessage(t *testing.T, err error) string {
	t.Helper()
	var pe *PageError
	require.ErrorAs(t, err, &pe)
	return pe.Message
}

func TestHome_FetchesByUserIDAndCaches(t *testing.T) {
	e := newEnv(t)
	e.seed(t, map[string]string{common.KeyUserID: "u1"})
	e.client.DetailsRet = &models.UserProfile{Name: "Alice"}

	p, err := newProfile(e).Home(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "u1", e.client.LastDetailsUserID)
	assert.Equal(t, "", e.client.LastDetailsToken, "token is optional on the home page")
	assert.Equal(t, "Alice", cached(t, e).Name)
}

func TestHome_NoUserID_NoNetworkCall(t *testing.T) {
	e := newEnv(t)

	_, err := newProfile(e).Home(context.Background())

	assert.Equal(t, "User ID not found", pageMessage(t, err))
	assert.Empty(t, e.client.calls)
}

func TestHome_FetchFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejected", &client.APIError{StatusCode: http.StatusOK, Message: "whatever"}, "Failed to fetch user details"},
		{"server error with message", &client.APIError{StatusCode: http.StatusNotFound, Message: "User not found"}, "User not found"},
		{"transport", client.ErrUnavailable, "Error fetching user details"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.loggedIn(t)
			e.client.DetailsErr = tt.err

			_, err := newProfile(e).Home(context.Background())

			assert.Equal(t, tt.want, pageMessage(t, err))
			assert.Nil(t, cached(t, e))
		})
	}
}

func TestDetails_UsesToken(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.client.DisplayRet = &models.UserProfile{Email: "a@b.c"}

	p, err := newProfile(e).Details(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", p.Email)
	assert.Equal(t, "tok", e.client.LastDisplayToken)
}

func TestDetails_NoToken_Inline(t *testing.T) {
	e := newEnv(t)
	e.seed(t, map[string]string{common.KeyUserID: "u1"})

	_, err := newProfile(e).Details(context.Background())
	assert.Equal(t, "Authentication token not found", pageMessage(t, err))
	assert.Empty(t, e.client.calls)
}

func TestEditForm_TokenVariantRedirects(t *testing.T) {
	e := newEnv(t)
	e.seed(t, map[string]string{common.KeyUserID: "u1"})

	_, err := newProfile(e).EditForm(context.Background(), ViaToken)

	r, ok := AsRedirect(err)
	require.True(t, ok)
	assert.Equal(t, RouteLogin, r.To)
	assert.Empty(t, e.client.calls)
}

func TestEditForm_UserIDVariantWorksWithoutToken(t *testing.T) {
	e := newEnv(t)
	e.seed(t, map[string]string{common.KeyUserID: "u1"})
	e.client.DetailsRet = &models.UserProfile{Name: "Alice"}

	p, err := newProfile(e).EditForm(context.Background(), ViaUserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
}

func TestUpdateByUserID_RefetchesAfterSuccess(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.seed(t, map[string]string{common.KeyUserDetails: `{"name":"Old"}`})
	e.client.DetailsRet = &models.UserProfile{Name: "Alice", Mobile: "123"}

	out, err := newProfile(e).UpdateByUserID(context.Background(), models.UserProfile{Name: "Alice", Mobile: "123"})
	require.NoError(t, err)

	assert.Equal(t, []string{"UpdateUser", "GetUserDetails"}, e.client.calls)
	assert.Equal(t, "u1", e.client.LastUpdateUserID)
	assert.Equal(t, "tok", e.client.LastUpdateToken)
	assert.Equal(t, "tok", e.client.LastDetailsToken)

	assert.Equal(t, Outcome{
		Next: RouteHome, Replace: true, Notice: "Profile updated successfully!",
		Profile: e.client.DetailsRet,
	}, out)
	if diff := cmp.Diff(e.client.DetailsRet, cached(t, e)); diff != "" {
		t.Fatalf("cache differs from server record (-server +cache):\n%s", diff)
	}
}

func TestUpdateWithToken_UsesEchoedRecord(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	echoed := &models.UserProfile{Name: "Bob", Email: "bob@example.org", City: "Delhi"}
	e.client.UpdateRet = &client.UpdateResult{Profile: echoed}

	out, err := newProfile(e).UpdateWithToken(context.Background(), models.UserProfile{Name: "Bob"})
	require.NoError(t, err)

	assert.Equal(t, []string{"UpdateWithToken"}, e.client.calls)
	assert.Equal(t, RouteHome, out.Next)
	assert.Equal(t, *echoed, *cached(t, e))
}

func TestUpdate_EchoWithoutIdentityRefetches(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.client.UpdateRet = &client.UpdateResult{Profile: &models.UserProfile{}}
	e.client.DetailsRet = &models.UserProfile{Name: "Bob", Email: "bob@example.org"}

	out, err := newProfile(e).UpdateWithToken(context.Background(), models.UserProfile{Name: "Bob"})
	require.NoError(t, err)

	assert.Equal(t, []string{"UpdateWithToken", "GetUserDetails"}, e.client.calls)
	assert.Equal(t, e.client.DetailsRet, out.Profile)
	assert.Equal(t, *e.client.DetailsRet, *cached(t, e))
}

func TestUpdateByUserID_AlwaysRefetches(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.client.UpdateRet = &client.UpdateResult{Profile: &models.UserProfile{Name: "Echo", Email: "e@example.org"}}
	e.client.DetailsRet = &models.UserProfile{Name: "Stored", Email: "e@example.org"}

	out, err := newProfile(e).UpdateByUserID(context.Background(), models.UserProfile{Name: "Echo"})
	require.NoError(t, err)

	assert.Equal(t, []string{"UpdateUser", "GetUserDetails"}, e.client.calls)
	assert.Equal(t, "Stored", out.Profile.Name)
	assert.Equal(t, "Stored", cached(t, e).Name)
}

func TestUnauthorized_EveryTokenFlowLogsOut(t *testing.T) {
	photo := &models.ImageFile{Name: "a.png", ContentType: "image/png", Size: 3, Data: []byte("png")}

	tests := []struct {
		name  string
		setup func(*fakeClient)
		run   func(ProfileService) error
		calls []string
	}{
		{
			name:  "home fetch",
			setup: func(f *fakeClient) { f.DetailsErr = client.ErrUnauthorized },
			run:   func(s ProfileService) error { _, err := s.Home(context.Background()); return err },
			calls: []string{"GetUserDetails"},
		},
		{
			name:  "details by token",
			setup: func(f *fakeClient) { f.DisplayErr = client.ErrUnauthorized },
			run:   func(s ProfileService) error { _, err := s.Details(context.Background()); return err },
			calls: []string{"Display"},
		},
		{
			name:  "edit form by user id",
			setup: func(f *fakeClient) { f.DetailsErr = client.ErrUnauthorized },
			run:   func(s ProfileService) error { _, err := s.EditForm(context.Background(), ViaUserID); return err },
			calls: []string{"GetUserDetails"},
		},
		{
			name:  "edit form with token",
			setup: func(f *fakeClient) { f.DetailsErr = client.ErrUnauthorized },
			run:   func(s ProfileService) error { _, err := s.EditForm(context.Background(), ViaToken); return err },
			calls: []string{"GetUserDetails"},
		},
		{
			name:  "update with token submit",
			setup: func(f *fakeClient) { f.UpdateErr = client.ErrUnauthorized },
			run: func(s ProfileService) error {
				_, err := s.UpdateWithToken(context.Background(), models.UserProfile{})
				return err
			},
			calls: []string{"UpdateWithToken"},
		},
		{
			name:  "update by user id submit",
			setup: func(f *fakeClient) { f.UpdateErr = client.ErrUnauthorized },
			run: func(s ProfileService) error {
				_, err := s.UpdateByUserID(context.Background(), models.UserProfile{})
				return err
			},
			calls: []string{"UpdateUser"},
		},
		{
			name:  "refetch after update with token",
			setup: func(f *fakeClient) { f.DetailsErr = client.ErrUnauthorized },
			run: func(s ProfileService) error {
				_, err := s.UpdateWithToken(context.Background(), models.UserProfile{})
				return err
			},
			calls: []string{"UpdateWithToken", "GetUserDetails"},
		},
		{
			name:  "refetch after update by user id",
			setup: func(f *fakeClient) { f.DetailsErr = client.ErrUnauthorized },
			run: func(s ProfileService) error {
				_, err := s.UpdateByUserID(context.Background(), models.UserProfile{})
				return err
			},
			calls: []string{"UpdateUser", "GetUserDetails"},
		},
		{
			name:  "photo upload",
			setup: func(f *fakeClient) { f.PhotoErr = client.ErrUnauthorized },
			run:   func(s ProfileService) error { _, err := s.UpdatePhoto(context.Background(), photo); return err },
			calls: []string{"UpdatePhoto"},
		},
		{
			name:  "refetch after photo upload",
			setup: func(f *fakeClient) { f.DetailsErr = client.ErrUnauthorized },
			run:   func(s ProfileService) error { _, err := s.UpdatePhoto(context.Background(), photo); return err },
			calls: []string{"UpdatePhoto", "GetUserDetails"},
		},
		{
			name:  "delete account",
			setup: func(f *fakeClient) { f.DeleteErr = client.ErrUnauthorized },
			run:   func(s ProfileService) error { _, err := s.DeleteAccount(context.Background(), yes()); return err },
			calls: []string{"DeleteUser"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			e.loggedIn(t)
			e.seed(t, map[string]string{common.KeyUserDetails: `{"name":"Old"}`})
			tc.setup(e.client)

			err := tc.run(newProfile(e))

			r, ok := AsRedirect(err)
			require.True(t, ok, "want redirect, got %v", err)
			assert.Equal(t, RouteLogin, r.To)
			assert.ErrorIs(t, err, client.ErrUnauthorized)
			assert.Empty(t, e.sessionKeys(t))
			assert.Equal(t, tc.calls, e.client.calls)
		})
	}
}

func TestUpdateWithToken_NoToken_RedirectsWithoutNetwork(t *testing.T) {
	e := newEnv(t)
	e.seed(t, map[string]string{common.KeyUserID: "u1"})

	_, err := newProfile(e).UpdateWithToken(context.Background(), models.UserProfile{Name: "x"})

	r, ok := AsRedirect(err)
	require.True(t, ok)
	assert.Equal(t, RouteLogin, r.To)
	assert.Empty(t, e.client.calls)
}

func TestUpdateByUserID_NoToken_Inline(t *testing.T) {
	e := newEnv(t)
	e.seed(t, map[string]string{common.KeyUserID: "u1"})

	_, err := newProfile(e).UpdateByUserID(context.Background(), models.UserProfile{})

	assert.Equal(t, "User ID or token not found", pageMessage(t, err))
	assert.Empty(t, e.client.calls)
}

func TestUpdate_UnauthorizedLogsOut(t *testing.T) {
	for name, run := range map[string]func(ProfileService) (Outcome, error){
		"token":  func(s ProfileService) (Outcome, error) { return s.UpdateWithToken(context.Background(), models.UserProfile{}) },
		"userId": func(s ProfileService) (Outcome, error) { return s.UpdateByUserID(context.Background(), models.UserProfile{}) },
	} {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t)
			e.loggedIn(t)
			e.seed(t, map[string]string{common.KeyUserDetails: `{"name":"Old"}`})
			e.client.UpdateErr = client.ErrUnauthorized

			_, err := run(newProfile(e))

			r, ok := AsRedirect(err)
			require.True(t, ok)
			assert.Equal(t, RouteLogin, r.To)
			assert.Empty(t, e.sessionKeys(t))
		})
	}
}

func TestUpdate_RejectedLeavesCache(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.seed(t, map[string]string{common.KeyUserDetails: `{"name":"Old"}`})
	e.client.UpdateErr = &client.APIError{StatusCode: http.StatusOK, Message: "Invalid mobile"}

	_, err := newProfile(e).UpdateByUserID(context.Background(), models.UserProfile{Name: "New"})

	assert.Equal(t, "Invalid mobile", pageMessage(t, err))
	assert.Equal(t, []string{"UpdateUser"}, e.client.calls, "no refetch after a failed update")
	assert.Equal(t, "Old", cached(t, e).Name)
}

func TestUpdate_TransportFallbacks(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.client.UpdateErr = client.ErrUnavailable

	_, err := newProfile(e).UpdateByUserID(context.Background(), models.UserProfile{})
	assert.Equal(t, "Error updating user details", pageMessage(t, err))

	_, err = newProfile(e).UpdateWithToken(context.Background(), models.UserProfile{})
	assert.Equal(t, "Failed to update profile", pageMessage(t, err))
}

func TestUpdate_RefetchFailureDoesNotCache(t *testing.T) {
	e := newEnv(t)
	e.loggedIn(t)
	e.client.DetailsErr = client.ErrUnavailable

	_, err := newProfile(e).UpdateByUserID(context.Background(), models.UserProfile{Name: "Alice"})

	assert.Equal(t, "Error fetching user details", pageMessage(t, err))
	assert.Nil(t, cached(t, e))
}

func TestPhotoSelection_RejectionKeepsPrevious(t *testing.T) {
	var sel PhotoSelection
	good := models.ImageFile{Name: "a.png", ContentType: "image/png", Size: 10}
	require.NoError(t, sel.Select(good))

	err := sel.Select(models.ImageFile{Name: "a.pdf", ContentType: "application/pdf", Size: 10})
	assert.EqualError(t, err, "Please select an image file")
	assert.Equal(t, &good, sel.Selected())

	err = sel.Select(models.ImageFile{Name: "big.png", ContentType: "image/png", Size: common.MaxImageSize + 1})
	assert.EqualError(t, err, "File size should be less than 5MB")
	assert.Equal(t, &good, sel.Selected())

	require.NoError(t, sel.Select(models.ImageFile{Name: "edge.png", ContentType: "image/png", Size: common.MaxImageSize}))
	assert.Equal(t, "edge.png", sel.Selected().Name)

	sel.Reset()
	assert.Nil(t, sel.Selected())
}

func TestUpdatePhoto(t *testing.T) {
	photo := &models.ImageFile{Name: "me.png", ContentType: "image/png", Size: 3, Data: []byte("png")}

	t.Run("nothing selected", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)

		_, err := newProfile(e).UpdatePhoto(context.Background(), nil)
		assert.EqualError(t, err, "Please select a photo first")
		assert.Empty(t, e.client.calls)
	})

	t.Run("no token redirects", func(t *testing.T) {
		e := newEnv(t)
		e.seed(t, map[string]string{common.KeyUserID: "u1"})

		_, err := newProfile(e).UpdatePhoto(context.Background(), photo)
		_, ok := AsRedirect(err)
		assert.True(t, ok)
		assert.Empty(t, e.client.calls)
	})

	t.Run("success refetches", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)
		e.client.DetailsRet = &models.UserProfile{Name: "Alice", Photo: "https://cdn/me.png"}

		out, err := newProfile(e).UpdatePhoto(context.Background(), photo)
		require.NoError(t, err)

		assert.Equal(t, []string{"UpdatePhoto", "GetUserDetails"}, e.client.calls)
		assert.Equal(t, "tok", e.client.LastPhotoToken)
		assert.Equal(t, "https://cdn/me.png", out.Profile.AvatarURL())
		assert.Equal(t, "https://cdn/me.png", cached(t, e).Photo)
	})

	t.Run("transport failure", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)
		e.client.PhotoErr = errors.Join(client.ErrUnavailable, errors.New("timeout"))

		_, err := newProfile(e).UpdatePhoto(context.Background(), photo)
		assert.Equal(t, "Failed to update photo. Please try again.", pageMessage(t, err))
	})

	t.Run("rejected with message", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)
		e.client.PhotoErr = &client.APIError{StatusCode: http.StatusOK, Message: "Unsupported format"}

		_, err := newProfile(e).UpdatePhoto(context.Background(), photo)
		assert.Equal(t, "Unsupported format", pageMessage(t, err))
	})

	t.Run("unauthorized", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)
		e.client.PhotoErr = client.ErrUnauthorized

		_, err := newProfile(e).UpdatePhoto(context.Background(), photo)
		_, ok := AsRedirect(err)
		assert.True(t, ok)
		assert.Empty(t, e.sessionKeys(t))
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("declined issues no request", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)

		var asked string
		_, err := newProfile(e).DeleteAccount(context.Background(), ConfirmFunc(func(p string) bool {
			asked = p
			return false
		}))

		require.ErrorIs(t, err, ErrCancelled)
		assert.True(t, strings.HasPrefix(asked, "Are you sure you want to delete your account?"))
		assert.Empty(t, e.client.calls)
		assert.Len(t, e.sessionKeys(t), 2)
	})

	t.Run("nil confirmer counts as declined", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)

		_, err := newProfile(e).DeleteAccount(context.Background(), nil)
		require.ErrorIs(t, err, ErrCancelled)
		assert.Empty(t, e.client.calls)
	})

	t.Run("success clears store and replaces history", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)
		require.NoError(t, e.gallery.Set(context.Background(), common.KeyUploadedImages, []byte(`[]`)))

		out, err := newProfile(e).DeleteAccount(context.Background(), yes())
		require.NoError(t, err)

		assert.Equal(t, RouteRegister, out.Next)
		assert.True(t, out.Replace)
		assert.Equal(t, "u1", e.client.LastDeleteUserID)
		assert.Equal(t, "tok", e.client.LastDeleteToken)
		assert.Empty(t, e.sessionKeys(t))

		v, err := e.gallery.Get(context.Background(), common.KeyUploadedImages)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("failure keeps store", func(t *testing.T) {
		e := newEnv(t)
		e.loggedIn(t)
		e.client.DeleteErr = &client.APIError{StatusCode: http.StatusInternalServerError}

		_, err := newProfile(e).DeleteAccount(context.Background(), yes())
		assert.Equal(t, "Failed to delete account", pageMessage(t, err))
		assert.Len(t, e.sessionKeys(t), 2)
	})

	t.Run("missing session is inline", func(t *testing.T) {
		e := newEnv(t)

		_, err := newProfile(e).DeleteAccount(context.Background(), yes())
		assert.Equal(t, "User ID or token not found", pageMessage(t, err))
		assert.Empty(t, e.client.calls)
	})
}
