package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/dbx"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// SessionStore keeps the token, the user id and the cached profile. Entries
// never expire; they go away only through Clear.
type SessionStore struct {
	repo   metadata.Repository
	db     *sql.DB
	logger logging.Logger
}

// NewSessionStore wraps an arbitrary repository. Save writes the two keys
// one after the other.
func NewSessionStore(repo metadata.Repository, logger logging.Logger) *SessionStore {
	return &SessionStore{repo: repo, logger: logger}
}

// NewSQLSessionStore stores the session in the local SQLite database. Save
// writes the token and the user id in one transaction.
func NewSQLSessionStore(db *sql.DB, logger logging.Logger) *SessionStore {
	return &SessionStore{
		repo:   metadata.NewSQLiteRepository(db, metadata.TableSession),
		db:     db,
		logger: logger,
	}
}

// Load returns the stored session. Absent keys yield empty fields.
func (s *SessionStore) Load(ctx context.Context) (models.Session, error) {
	token, err := s.repo.Get(ctx, common.KeyToken)
	if err != nil {
		return models.Session{}, err
	}
	userID, err := s.repo.Get(ctx, common.KeyUserID)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{Token: string(token), UserID: string(userID)}, nil
}

// Save stores both halves of the session.
func (s *SessionStore) Save(ctx context.Context, session models.Session) error {
	write := func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Set(ctx, common.KeyToken, []byte(session.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.KeyUserID, []byte(session.UserID))
	}

	if s.db == nil {
		return write(ctx, s.repo)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return write(ctx, metadata.NewSQLiteRepository(tx, metadata.TableSession))
	})
}

// CacheProfile overwrites the cached copy of the user's profile.
func (s *SessionStore) CacheProfile(ctx context.Context, p models.UserProfile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.repo.Set(ctx, common.KeyUserDetails, b); err != nil {
		return err
	}
	s.logger.Debug(ctx, "profile cached")
	return nil
}

// CachedProfile returns the cached profile, or nil when there is none.
func (s *SessionStore) CachedProfile(ctx context.Context) (*models.UserProfile, error) {
	b, err := s.repo.Get(ctx, common.KeyUserDetails)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	var p models.UserProfile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &p, nil
}

// Clear removes everything the store holds.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
