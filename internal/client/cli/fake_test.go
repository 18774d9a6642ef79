package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

// captureOutput replaces printlnFn for the duration of the test and returns
// the collected lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		s := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
		lines = append(lines, s)
		return len(s), nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

type testApp struct {
	*App
	auth    *fakeAuth
	profile *fakeProfile
	gallery *fakeGallery
}

func newTestApp(start services.Route, r *bufio.Reader) *testApp {
	ta := &testApp{auth: &fakeAuth{}, profile: &fakeProfile{}, gallery: &fakeGallery{}}
	ta.App = &App{
		auth:    ta.auth,
		profile: ta.profile,
		gallery: ta.gallery,
		logger:  logging.Discard(),
		reader:  r,
		out:     io.Discard,
		route:   start,
		history: []services.Route{start},
	}
	return ta
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}

// ------------ fakes ------------

type fakeAuth struct {
	regReq models.RegisterRequest
	regOut services.Outcome
	regErr error

	loginCreds models.Credentials
	loginOut   services.Outcome
	loginErr   error

	logoutCalled bool
	logoutOut    services.Outcome
	logoutErr    error
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (services.Outcome, error) {
	f.regReq = req
	return f.regOut, f.regErr
}
func (f *fakeAuth) Login(_ context.Context, creds models.Credentials) (services.Outcome, error) {
	f.loginCreds = creds
	return f.loginOut, f.loginErr
}
func (f *fakeAuth) Logout(context.Context) (services.Outcome, error) {
	f.logoutCalled = true
	return f.logoutOut, f.logoutErr
}

type fakeProfile struct {
	homeOut *models.UserProfile
	homeErr error

	detailsOut *models.UserProfile
	detailsErr error

	formVariant services.UpdateVariant
	formOut     *models.UserProfile
	formErr     error

	updated    []string
	updateIn   models.UserProfile
	updateOut  services.Outcome
	updateErr  error
	photoIn    *models.ImageFile
	photoOut   services.Outcome
	photoErr   error
	deleteConf services.Confirmer
	deleteOut  services.Outcome
	deleteErr  error
}

func (f *fakeProfile) Home(context.Context) (*models.UserProfile, error) {
	return f.homeOut, f.homeErr
}
func (f *fakeProfile) Details(context.Context) (*models.UserProfile, error) {
	return f.detailsOut, f.detailsErr
}
func (f *fakeProfile) EditForm(_ context.Context, v services.UpdateVariant) (*models.UserProfile, error) {
	f.formVariant = v
	return f.formOut, f.formErr
}
func (f *fakeProfile) UpdateWithToken(_ context.Context, p models.UserProfile) (services.Outcome, error) {
	f.updated = append(f.updated, "token")
	f.updateIn = p
	return f.updateOut, f.updateErr
}
func (f *fakeProfile) UpdateByUserID(_ context.Context, p models.UserProfile) (services.Outcome, error) {
	f.updated = append(f.updated, "userId")
	f.updateIn = p
	return f.updateOut, f.updateErr
}
func (f *fakeProfile) UpdatePhoto(_ context.Context, photo *models.ImageFile) (services.Outcome, error) {
	f.photoIn = photo
	return f.photoOut, f.photoErr
}
func (f *fakeProfile) DeleteAccount(_ context.Context, c services.Confirmer) (services.Outcome, error) {
	f.deleteConf = c
	if f.deleteErr == nil && !c.Confirm(services.PromptDeleteAccount) {
		return services.Outcome{}, services.ErrCancelled
	}
	return f.deleteOut, f.deleteErr
}

type fakeGallery struct {
	items   []models.GalleryItem
	listErr error

	addFiles []models.ImageFile
	addTitle string
	addDesc  string
	addErr   error

	editID   string
	editFile models.ImageFile
	editErr  error

	deleted  []string
	cleared  bool
	mutErr   error
	cart     []models.CartItem
	cartErr  error
	confirms []bool
}

func (f *fakeGallery) List(context.Context) ([]models.GalleryItem, error) {
	return f.items, f.listErr
}
func (f *fakeGallery) Add(_ context.Context, files []models.ImageFile, title, description string) ([]models.GalleryItem, error) {
	f.addFiles, f.addTitle, f.addDesc = files, title, description
	if f.addErr != nil {
		return nil, f.addErr
	}
	out := make([]models.GalleryItem, len(files))
	for i, file := range files {
		out[i] = models.GalleryItem{ID: fmt.Sprintf("IMG_%d", i), Name: file.Name, Title: title}
	}
	return out, nil
}
func (f *fakeGallery) Edit(_ context.Context, id string, file models.ImageFile) (models.GalleryItem, error) {
	f.editID, f.editFile = id, file
	return models.GalleryItem{ID: id, Name: file.Name}, f.editErr
}
func (f *fakeGallery) Delete(_ context.Context, id string, c services.Confirmer) error {
	ok := c.Confirm(services.PromptRemoveImage)
	f.confirms = append(f.confirms, ok)
	if !ok {
		return services.ErrCancelled
	}
	f.deleted = append(f.deleted, id)
	return f.mutErr
}
func (f *fakeGallery) DeleteAll(_ context.Context, c services.Confirmer) error {
	ok := c.Confirm(services.PromptClearGallery)
	f.confirms = append(f.confirms, ok)
	if !ok {
		return services.ErrCancelled
	}
	f.cleared = true
	return f.mutErr
}
func (f *fakeGallery) Uploading() bool { return false }
func (f *fakeGallery) RemoteCart(context.Context) ([]models.CartItem, error) {
	return f.cart, f.cartErr
}
