package models

// UserProfile is the user record owned by the remote profile service.
// Absent JSON fields decode to "" so edit forms always have a value.
type UserProfile struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Mobile  Numeric `json:"mobile"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Dob     string  `json:"dob"`
	Photo   string  `json:"photo"`

	// ProfilePhoto is an older avatar field some records still carry.
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// HasIdentity reports whether p looks like a stored user record rather than
// some other object the server put under "data".
func (p UserProfile) HasIdentity() bool { return p.Email != "" }

// AvatarURL prefers Photo and falls back to ProfilePhoto.
func (p UserProfile) AvatarURL() string {
	if p.Photo != "" {
		return p.Photo
	}
	return p.ProfilePhoto
}

// Field names accepted by Set, in display order.
var ProfileFields = []string{"name", "email", "mobile", "address", "city", "state", "country", "dob"}

// Get returns the editable field by name.
func (p UserProfile) Get(field string) string {
	switch field {
	case "name":
		return p.Name
	case "email":
		return p.Email
	case "mobile":
		return string(p.Mobile)
	case "address":
		return p.Address
	case "city":
		return p.City
	case "state":
		return p.State
	case "country":
		return p.Country
	case "dob":
		return p.Dob
	}
	return ""
}

// Set changes the editable field by name and reports whether it exists.
func (p *UserProfile) Set(field, value string) bool {
	switch field {
	case "name":
		p.Name = value
	case "email":
		p.Email = value
	case "mobile":
		p.Mobile = Numeric(value)
	case "address":
		p.Address = value
	case "city":
		p.City = value
	case "state":
		p.State = value
	case "country":
		p.Country = value
	case "dob":
		p.Dob = value
	default:
		return false
	}
	return true
}
