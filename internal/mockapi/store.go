package mockapi

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken is returned when another user already has the email.
var ErrEmailTaken = errors.New("email already exists")

// Profile is the user record as the API returns it.
type Profile struct {
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Mobile  json.Number `json:"mobile"`
	Address string      `json:"address"`
	City    string      `json:"city"`
	State   string      `json:"state"`
	Country string      `json:"country"`
	Dob     string      `json:"dob"`
	Photo   string      `json:"photo"`
}

// Signup is the registration payload.
type Signup struct {
	Profile
	Password string      `json:"password"`
	Pincode  json.Number `json:"pincode"`
	Gender   string      `json:"gender"`
}

// CartRecord is one cart entry.
type CartRecord struct {
	ID         string   `json:"_id"`
	Title      string   `json:"title"`
	CartPhotos []string `json:"cart_photos"`
}

type user struct {
	id           string
	passwordHash []byte
	profile      Profile
	pincode      json.Number
	gender       string
	cart         []CartRecord
}

// Store keeps users in memory.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*user
	byEmail map[string]string
}

func NewStore() *Store {
	return &Store{byID: make(map[string]*user), byEmail: make(map[string]string)}
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// Create registers a user and returns its id.
func (s *Store) Create(su Signup) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := normEmail(su.Email)
	if _, ok := s.byEmail[email]; ok {
		return "", ErrEmailTaken
	}

	u := &user{
		id:           uuid.NewString(),
		passwordHash: hash,
		profile:      su.Profile,
		pincode:      su.Pincode,
		gender:       su.Gender,
	}
	s.byID[u.id] = u
	s.byEmail[email] = u.id
	return u.id, nil
}

// Authenticate returns the id of the user with matching credentials.
func (s *Store) Authenticate(email, password string) (string, error) {
	s.mu.RLock()
	id, ok := s.byEmail[normEmail(email)]
	var hash []byte
	if ok {
		hash = s.byID[id].passwordHash
	}
	s.mu.RUnlock()

	if !ok {
		return "", common.ErrorUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", common.ErrorUnauthorized
	}
	return id, nil
}

// Profile returns a copy of the user's profile.
func (s *Store) Profile(id string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return Profile{}, common.ErrorNotFound
	}
	return u.profile, nil
}

// Update applies fn to the user's profile and returns the result. Email
// changes keep the login index in step.
func (s *Store) Update(id string, fn func(*Profile)) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return Profile{}, common.ErrorNotFound
	}

	oldEmail := normEmail(u.profile.Email)
	next := u.profile
	fn(&next)

	if newEmail := normEmail(next.Email); newEmail != oldEmail {
		if other, taken := s.byEmail[newEmail]; taken && other != id {
			return Profile{}, ErrEmailTaken
		}
		delete(s.byEmail, oldEmail)
		s.byEmail[newEmail] = id
	}
	u.profile = next
	return next, nil
}

// Delete removes the user.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(s.byEmail, normEmail(u.profile.Email))
	delete(s.byID, id)
	return nil
}

// AddToCart appends a cart record for the user, assigning an id when empty.
func (s *Store) AddToCart(id string, rec CartRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	u.cart = append(u.cart, rec)
	return nil
}

// Cart returns a copy of the user's cart.
func (s *Store) Cart(id string) ([]CartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := make([]CartRecord, len(u.cart))
	copy(out, u.cart)
	return out, nil
}
