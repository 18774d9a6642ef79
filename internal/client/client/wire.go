package client

import (
	"encoding/json"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
)

// envelope is the common response body of the profile API.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Token   string          `json:"token,omitempty"`
	UserID  string          `json:"userId,omitempty"`
}

func (e *envelope) hasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// sessionData is the login payload when it is nested under "data".
type sessionData struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// cartRecord is one element of the cart display payload.
type cartRecord struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	CartPhotos  []string `json:"cart_photos"`
	Description string   `json:"description,omitempty"`
}

func (r cartRecord) toItem() models.CartItem {
	item := models.CartItem{ID: r.ID, Name: r.Title}
	if len(r.CartPhotos) > 0 {
		item.URL = r.CartPhotos[0]
	}
	return item
}
