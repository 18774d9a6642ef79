package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client and records every call in order.
type fakeClient struct {
	calls []string

	RegisterMsg  string
	RegisterErr  error
	LastRegister models.RegisterRequest

	LoginRet  models.Session
	LoginErr  error
	LastCreds models.Credentials

	DetailsRet        *models.UserProfile
	DetailsErr        error
	LastDetailsUserID string
	LastDetailsToken  string

	DisplayRet       *models.UserProfile
	DisplayErr       error
	LastDisplayToken string

	UpdateRet         *client.UpdateResult
	UpdateErr         error
	LastUpdateProfile models.UserProfile
	LastUpdateUserID  string
	LastUpdateToken   string

	PhotoErr       error
	LastPhoto      models.ImageFile
	LastPhotoToken string

	DeleteErr        error
	LastDeleteUserID string
	LastDeleteToken  string

	CartRet []models.CartItem
	CartErr error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Register(_ context.Context, req models.RegisterRequest) (string, error) {
	f.calls = append(f.calls, "Register")
	f.LastRegister = req
	return f.RegisterMsg, f.RegisterErr
}

func (f *fakeClient) Login(_ context.Context, creds models.Credentials) (models.Session, error) {
	f.calls = append(f.calls, "Login")
	f.LastCreds = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) GetUserDetails(_ context.Context, userID, token string) (*models.UserProfile, error) {
	f.calls = append(f.calls, "GetUserDetails")
	f.LastDetailsUserID, f.LastDetailsToken = userID, token
	return f.DetailsRet, f.DetailsErr
}

func (f *fakeClient) Display(_ context.Context, token string) (*models.UserProfile, error) {
	f.calls = append(f.calls, "Display")
	f.LastDisplayToken = token
	return f.DisplayRet, f.DisplayErr
}

func (f *fakeClient) UpdateWithToken(_ context.Context, token string, p models.UserProfile) (*client.UpdateResult, error) {
	f.calls = append(f.calls, "UpdateWithToken")
	f.LastUpdateToken, f.LastUpdateProfile = token, p
	return f.updateResult()
}

func (f *fakeClient) UpdateUser(_ context.Context, userID, token string, p models.UserProfile) (*client.UpdateResult, error) {
	f.calls = append(f.calls, "UpdateUser")
	f.LastUpdateUserID, f.LastUpdateToken, f.LastUpdateProfile = userID, token, p
	return f.updateResult()
}

func (f *fakeClient) updateResult() (*client.UpdateResult, error) {
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	if f.UpdateRet == nil {
		return &client.UpdateResult{}, nil
	}
	return f.UpdateRet, nil
}

func (f *fakeClient) UpdatePhoto(_ context.Context, _, token string, photo models.ImageFile) (string, error) {
	f.calls = append(f.calls, "UpdatePhoto")
	f.LastPhoto, f.LastPhotoToken = photo, token
	return "", f.PhotoErr
}

func (f *fakeClient) DeleteUser(_ context.Context, userID, token string) (string, error) {
	f.calls = append(f.calls, "DeleteUser")
	f.LastDeleteUserID, f.LastDeleteToken = userID, token
	return "", f.DeleteErr
}

func (f *fakeClient) DisplayCart(_ context.Context, _, _ string) ([]models.CartItem, error) {
	f.calls = append(f.calls, "DisplayCart")
	return f.CartRet, f.CartErr
}

// ---- helpers ----

type env struct {
	client  *fakeClient
	session *metadata.MemoryRepository
	gallery *metadata.MemoryRepository
	store   *SessionStore
	guard   *Guard
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		client:  &fakeClient{},
		session: metadata.NewMemoryRepository(),
		gallery: metadata.NewMemoryRepository(),
	}
	e.store = NewSessionStore(e.session, logging.Discard())
	e.guard = NewGuard(e.store, logging.Discard())
	return e
}

func (e *env) seed(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		require.NoError(t, e.session.Set(context.Background(), k, []byte(v)))
	}
}

func (e *env) loggedIn(t *testing.T) {
	e.seed(t, map[string]string{common.KeyToken: "tok", common.KeyUserID: "u1"})
}

func (e *env) sessionKeys(t *testing.T) map[string][]byte {
	t.Helper()
	all, err := e.session.List(context.Background())
	require.NoError(t, err)
	return all
}

func yes() Confirmer { return ConfirmFunc(func(string) bool { return true }) }
func no() Confirmer  { return ConfirmFunc(func(string) bool { return false }) }
