package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// HTTPClient talks to the profile API over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewHTTPClient returns a client for baseURL (e.g. "https://host/api").
// A zero timeout means no client-side deadline.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// request describes one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("encode request: %w", err)
	}
	return request{method: method, path: path, body: bytes.NewReader(b), contentType: "application/json"}, nil
}

func (c *HTTPClient) do(ctx context.Context, r request) (*envelope, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, r.token)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug(ctx, "api request", "method", r.method, "path", r.path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "api response", "method", r.method, "path", r.path, "status", resp.StatusCode)

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		if decodeErr == nil && env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, env.Message)
		}
		return nil, ErrUnauthorized
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}

	if !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

func decodeProfile(env *envelope) (*models.UserProfile, error) {
	if !env.hasData() {
		return nil, fmt.Errorf("%w: missing data", ErrMalformedResponse)
	}
	var p models.UserProfile
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &p, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.RegisterRequest) (string, error) {
	r, err := jsonRequest(http.MethodPost, common.PathRegister, reg)
	if err != nil {
		return "", err
	}
	env, err := c.do(ctx, r)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	r, err := jsonRequest(http.MethodPost, common.PathLogin, creds)
	if err != nil {
		return models.Session{}, err
	}
	env, err := c.do(ctx, r)
	if err != nil {
		return models.Session{}, err
	}

	s := models.Session{Token: env.Token, UserID: env.UserID}
	if (s.Token == "" || s.UserID == "") && env.hasData() {
		var nested sessionData
		if err := json.Unmarshal(env.Data, &nested); err == nil {
			if s.Token == "" {
				s.Token = nested.Token
			}
			if s.UserID == "" {
				s.UserID = nested.UserID
			}
		}
	}
	if s.Token == "" || s.UserID == "" {
		return models.Session{}, fmt.Errorf("%w: login response lacks token or userId", ErrMalformedResponse)
	}
	return s, nil
}

func (c *HTTPClient) GetUserDetails(ctx context.Context, userID, token string) (*models.UserProfile, error) {
	env, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   common.PathUserDetails,
		query:  url.Values{"userId": {userID}},
		token:  token,
	})
	if err != nil {
		return nil, err
	}
	return decodeProfile(env)
}

func (c *HTTPClient) Display(ctx context.Context, token string) (*models.UserProfile, error) {
	env, err := c.do(ctx, request{method: http.MethodGet, path: common.PathDisplay, token: token})
	if err != nil {
		return nil, err
	}
	return decodeProfile(env)
}

func (c *HTTPClient) update(ctx context.Context, r request) (*UpdateResult, error) {
	env, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	res := &UpdateResult{Message: env.Message}
	if env.hasData() {
		if p, err := decodeProfile(env); err == nil && p.HasIdentity() {
			res.Profile = p
		}
	}
	return res, nil
}

func (c *HTTPClient) UpdateWithToken(ctx context.Context, token string, profile models.UserProfile) (*UpdateResult, error) {
	r, err := jsonRequest(http.MethodPut, common.PathUpdateWithToken, profile)
	if err != nil {
		return nil, err
	}
	r.token = token
	return c.update(ctx, r)
}

func (c *HTTPClient) UpdateUser(ctx context.Context, userID, token string, profile models.UserProfile) (*UpdateResult, error) {
	r, err := jsonRequest(http.MethodPut, common.PathUpdateUser, profile)
	if err != nil {
		return nil, err
	}
	r.query = url.Values{"userId": {userID}}
	r.token = token
	return c.update(ctx, r)
}

func (c *HTTPClient) UpdatePhoto(ctx context.Context, userID, token string, photo models.ImageFile) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("userId", userID); err != nil {
		return "", fmt.Errorf("encode multipart: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profile_photo"; filename="%s"`, quoteEscaper.Replace(photo.Name)))
	h.Set("Content-Type", photo.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("encode multipart: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return "", fmt.Errorf("encode multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("encode multipart: %w", err)
	}

	env, err := c.do(ctx, request{
		method:      http.MethodPut,
		path:        common.PathUpdateWithPhoto,
		token:       token,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, userID, token string) (string, error) {
	env, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   common.PathDeleteUser,
		query:  url.Values{"userId": {userID}},
		token:  token,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *HTTPClient) DisplayCart(ctx context.Context, userID, token string) ([]models.CartItem, error) {
	env, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   common.PathDisplayCart,
		query:  url.Values{"userId": {userID}},
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0)
	if !env.hasData() {
		return items, nil
	}

	var records []cartRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, rec := range records {
		items = append(items, rec.toItem())
	}
	return items, nil
}

// IsTransport reports whether err is a failure to reach or read the server,
// as opposed to an answer from it.
func IsTransport(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrMalformedResponse)
}
