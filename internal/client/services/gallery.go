package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// GalleryService defines the cards page: a gallery of images kept only on
// this machine, plus a read-only view of the remote cart.
//
// Every mutation writes the whole list to storage before the in-memory copy
// is replaced, so a failed write leaves both unchanged.
type GalleryService interface {
	List(ctx context.Context) ([]models.GalleryItem, error)
	// Add stores files as new items in front of the existing ones.
	Add(ctx context.Context, files []models.ImageFile, title, description string) ([]models.GalleryItem, error)
	// Edit replaces the image of one item.
	Edit(ctx context.Context, id string, file models.ImageFile) (models.GalleryItem, error)
	Delete(ctx context.Context, id string, c Confirmer) error
	DeleteAll(ctx context.Context, c Confirmer) error
	// Uploading reports whether an Add is running.
	Uploading() bool

	// RemoteCart lists the server-side cart. It never touches the local
	// gallery.
	RemoteCart(ctx context.Context) ([]models.CartItem, error)
}

type galleryService struct {
	mu     sync.Mutex
	busy   atomic.Bool
	items  []models.GalleryItem
	loaded bool

	repo   metadata.Repository
	client client.Client
	guard  *Guard
	logger logging.Logger
	now    func() time.Time
}

// NewGalleryService constructs a GalleryService persisting to repo.
func NewGalleryService(repo metadata.Repository, c client.Client, guard *Guard, logger logging.Logger) GalleryService {
	return &galleryService{repo: repo, client: c, guard: guard, logger: logger, now: time.Now}
}

const (
	msgNoImages       = "Please select images to upload"
	msgOnlyImages     = "Please select only image files"
	msgEachTooLarge   = "Each file should be less than 5MB"
	msgCartLoadFailed = "Failed to load images. Please try again."
	msgItemNotFound   = "image not found"
)

// ValidateImages checks a batch picked for the gallery.
func ValidateImages(files []models.ImageFile) error {
	if len(files) == 0 {
		return invalid(msgNoImages)
	}
	for _, f := range files {
		if !f.IsImage() {
			return invalid(msgOnlyImages)
		}
	}
	for _, f := range files {
		if f.Size > common.MaxImageSize {
			return invalid(msgEachTooLarge)
		}
	}
	return nil
}

// load reads the stored list once. Callers hold mu.
func (g *galleryService) load(ctx context.Context) error {
	if g.loaded {
		return nil
	}
	b, err := g.repo.Get(ctx, common.KeyUploadedImages)
	if err != nil {
		return err
	}
	var items []models.GalleryItem
	if len(b) > 0 {
		if err := json.Unmarshal(b, &items); err != nil {
			return fmt.Errorf("decode %s: %w", common.KeyUploadedImages, err)
		}
	}
	g.items = items
	g.loaded = true
	return nil
}

// commit persists items and then makes them current. Callers hold mu.
func (g *galleryService) commit(ctx context.Context, items []models.GalleryItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", common.KeyUploadedImages, err)
	}
	if err := g.repo.Set(ctx, common.KeyUploadedImages, b); err != nil {
		return err
	}
	g.items = items
	return nil
}

func (g *galleryService) List(ctx context.Context) ([]models.GalleryItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.load(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(g.items), nil
}

func (g *galleryService) Uploading() bool { return g.busy.Load() }

func (g *galleryService) Add(ctx context.Context, files []models.ImageFile, title, description string) ([]models.GalleryItem, error) {
	if !g.busy.CompareAndSwap(false, true) {
		return nil, ErrUploadInProgress
	}
	defer g.busy.Store(false)

	if err := ValidateImages(files); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.load(ctx); err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(g.items)+len(files))
	for _, it := range g.items {
		taken[it.ID] = struct{}{}
	}

	now := g.now()
	added := make([]models.GalleryItem, 0, len(files))
	for _, f := range files {
		id := nextID(now, taken)
		taken[id] = struct{}{}
		added = append(added, models.GalleryItem{
			ID:          id,
			URL:         f.DataURL(),
			Name:        f.Name,
			Title:       title,
			Description: description,
			CreatedAt:   now,
		})
	}
	if err := g.commit(ctx, append(slices.Clone(added), g.items...)); err != nil {
		return nil, err
	}

	g.logger.Info(ctx, "images added to gallery", "count", len(added))
	return added, nil
}

func (g *galleryService) Edit(ctx context.Context, id string, file models.ImageFile) (models.GalleryItem, error) {
	if err := ValidatePhoto(file); err != nil {
		return models.GalleryItem{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.load(ctx); err != nil {
		return models.GalleryItem{}, err
	}
	i := g.indexOf(id)
	if i < 0 {
		return models.GalleryItem{}, fmt.Errorf("%s %q: %w", msgItemNotFound, id, common.ErrorNotFound)
	}

	updated := slices.Clone(g.items)
	now := g.now()
	updated[i].URL = file.DataURL()
	updated[i].Name = file.Name
	updated[i].UpdatedAt = &now

	if err := g.commit(ctx, updated); err != nil {
		return models.GalleryItem{}, err
	}
	return updated[i], nil
}

func (g *galleryService) Delete(ctx context.Context, id string, c Confirmer) error {
	if !confirmed(c, PromptRemoveImage) {
		return ErrCancelled
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.load(ctx); err != nil {
		return err
	}
	i := g.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%s %q: %w", msgItemNotFound, id, common.ErrorNotFound)
	}
	return g.commit(ctx, slices.Delete(slices.Clone(g.items), i, i+1))
}

func (g *galleryService) DeleteAll(ctx context.Context, c Confirmer) error {
	if !confirmed(c, PromptClearGallery) {
		return ErrCancelled
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.repo.Delete(ctx, common.KeyUploadedImages); err != nil {
		return err
	}
	g.items = nil
	g.loaded = true
	g.logger.Info(ctx, "gallery cleared")
	return nil
}

// nextID returns the first IMG_<unix ms>_<n> not in taken.
func nextID(now time.Time, taken map[string]struct{}) string {
	for n := 0; ; n++ {
		id := fmt.Sprintf("IMG_%d_%d", now.UnixMilli(), n)
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}

func (g *galleryService) indexOf(id string) int {
	return slices.IndexFunc(g.items, func(it models.GalleryItem) bool { return it.ID == id })
}

func (g *galleryService) RemoteCart(ctx context.Context) ([]models.CartItem, error) {
	sess, err := g.guard.Require(ctx, CartRequirement)
	if err != nil {
		return nil, err
	}

	items, err := g.client.DisplayCart(ctx, sess.UserID, sess.Token)
	if err != nil {
		if err := g.guard.Check(ctx, err); isRedirect(err) {
			return nil, err
		}
		return nil, &PageError{Message: msgCartLoadFailed, Err: err}
	}
	return items, nil
}
