package models

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GalleryItem is one locally stored image. URL holds a base64 data URL.
type GalleryItem struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// CartItem is one record of the remote cart, reduced to what the gallery
// page shows.
type CartItem struct {
	ID   string
	URL  string
	Name string
}

// ImageFile is a file picked by the user for upload.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// IsImage reports whether the MIME type is image/*.
func (f ImageFile) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

// DataURL encodes the file as "data:<type>;base64,<payload>".
func (f ImageFile) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", f.ContentType, base64.StdEncoding.EncodeToString(f.Data))
}

// LoadImageFile reads path and determines its MIME type from the extension,
// falling back to content sniffing.
func LoadImageFile(path string) (ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	return ImageFile{
		Name:        filepath.Base(path),
		ContentType: ct,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
