package mockapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// maxUpload bounds multipart bodies; the extra MiB is room for form fields.
const maxUpload = common.MaxImageSize + 1<<20

type ctxKey struct{}

// Server serves the profile API from a Store.
type Server struct {
	cfg    *Config
	store  *Store
	logger logging.Logger
	now    func() time.Time
}

// NewServer returns a server with an empty store.
func NewServer(cfg *Config, logger logging.Logger) *Server {
	return &Server{cfg: cfg, store: NewStore(), logger: logger, now: time.Now}
}

// Store exposes the backing store, e.g. to seed cart records.
func (s *Server) Store() *Store { return s.store }

// Handler builds the router.
//
// Routes (all under /api):
//
//	POST   /user/add_user
//	POST   /user/login
//	GET    /user/userDetails?userId=   token optional
//	GET    /user/display               token required
//	PUT    /user/updateWithToken       token required, echoes the record
//	PUT    /user/updateUser?userId=    token required
//	PUT    /user/updateWithPhoto       token required, multipart
//	DELETE /user/delete?userId=        token required
//	GET    /cart/display_cart?userId=  token required
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.requestLogging)

	r.Route("/api", func(r chi.Router) {
		r.Post(common.PathRegister, s.register)
		r.Post(common.PathLogin, s.login)

		r.With(s.authenticate(false)).Get(common.PathUserDetails, s.userDetails)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate(true))
			r.Get(common.PathDisplay, s.display)
			r.Put(common.PathUpdateWithToken, s.updateWithToken)
			r.Put(common.PathUpdateUser, s.updateUser)
			r.Put(common.PathUpdateWithPhoto, s.updateWithPhoto)
			r.Delete(common.PathDeleteUser, s.deleteUser)
			r.Get(common.PathDisplayCart, s.displayCart)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "mock profile API listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.now()
		next.ServeHTTP(ww, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

// authenticate reads the raw token from the Authorization header. When
// required is false a missing header is accepted, but a present and invalid
// one is still rejected.
func (s *Server) authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(common.AuthorizationHeaderName)
			if token == "" {
				if required {
					fail(w, http.StatusUnauthorized, "No token provided")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			userID, err := UserIDFromToken(token, []byte(s.cfg.SecretKey))
			if err != nil {
				s.logger.Debug(r.Context(), "token rejected", "error", err)
				fail(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
		})
	}
}

func tokenUser(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

// queryUser returns the userId query parameter and checks it against the
// token's user when there is one.
func queryUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("userId")
	if id == "" {
		fail(w, http.StatusBadRequest, "userId is required")
		return "", false
	}
	if tu := tokenUser(r); tu != "" && tu != id {
		fail(w, http.StatusForbidden, "Not allowed to access another user")
		return "", false
	}
	return id, true
}

func (s *Server) notFoundOr500(w http.ResponseWriter, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		fail(w, http.StatusNotFound, "User not found")
		return
	}
	fail(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var su Signup
	if err := json.NewDecoder(r.Body).Decode(&su); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if su.Email == "" || su.Password == "" {
		writeJSON(w, http.StatusOK, envelope{Success: false, Message: "Email and password are required"})
		return
	}

	id, err := s.store.Create(su)
	if errors.Is(err, ErrEmailTaken) {
		writeJSON(w, http.StatusOK, envelope{Success: false, Message: "Email already exists"})
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", id)
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "User registered successfully"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.store.Authenticate(creds.Email, creds.Password)
	if err != nil {
		fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := GenerateToken(id, []byte(s.cfg.SecretKey), s.cfg.TokenTTL)
	if err != nil {
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Login successful", Token: token, UserID: id})
}

func (s *Server) userDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUser(w, r)
	if !ok {
		return
	}
	p, err := s.store.Profile(id)
	if err != nil {
		s.notFoundOr500(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: p})
}

func (s *Server) display(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Profile(tokenUser(r))
	if err != nil {
		s.notFoundOr500(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: p})
}

// decodeProfile overlays the request body on the stored record.
func decodeProfile(r *http.Request) (func(*Profile), error) {
	var in Profile
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return nil, err
	}
	return func(p *Profile) {
		photo := p.Photo
		*p = in
		if p.Photo == "" {
			p.Photo = photo
		}
	}, nil
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, id string, echo bool) {
	apply, err := decodeProfile(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := s.store.Update(id, apply)
	if errors.Is(err, ErrEmailTaken) {
		writeJSON(w, http.StatusOK, envelope{Success: false, Message: "Email already exists"})
		return
	}
	if err != nil {
		s.notFoundOr500(w, err)
		return
	}

	resp := envelope{Success: true, Message: "User updated successfully"}
	if echo {
		resp.Data = p
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateWithToken(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, tokenUser(r), true)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUser(w, r)
	if !ok {
		return
	}
	s.update(w, r, id, false)
}

func (s *Server) updateWithPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		fail(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	id := r.FormValue("userId")
	if id != tokenUser(r) {
		fail(w, http.StatusForbidden, "Not allowed to access another user")
		return
	}

	f, fh, err := r.FormFile("profile_photo")
	if err != nil {
		writeJSON(w, http.StatusOK, envelope{Success: false, Message: "No photo uploaded"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	if len(data) > common.MaxImageSize {
		writeJSON(w, http.StatusOK, envelope{Success: false, Message: "File size should be less than 5MB"})
		return
	}

	ct := fh.Header.Get("Content-Type")
	url := fmt.Sprintf("data:%s;base64,%s", ct, base64.StdEncoding.EncodeToString(data))
	if _, err := s.store.Update(id, func(p *Profile) { p.Photo = url }); err != nil {
		s.notFoundOr500(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Profile photo updated successfully"})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUser(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.notFoundOr500(w, err)
		return
	}
	s.logger.Info(r.Context(), "user deleted", "user_id", id)
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "User deleted successfully"})
}

func (s *Server) displayCart(w http.ResponseWriter, r *http.Request) {
	id, ok := queryUser(w, r)
	if !ok {
		return
	}
	cart, err := s.store.Cart(id)
	if err != nil {
		s.notFoundOr500(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: cart})
}
