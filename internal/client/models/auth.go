package models

// Session is the identity pair kept in the local session store.
// Either field may be empty.
type Session struct {
	Token  string
	UserID string
}

// HasUserID reports whether a user id is stored.
func (s Session) HasUserID() bool { return s.UserID != "" }

// HasToken reports whether a token is stored.
func (s Session) HasToken() bool { return s.Token != "" }

// Credentials are exchanged for a session by the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the sign-up payload. Mobile and Pincode are sent as
// JSON numbers.
type RegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Mobile   Numeric `json:"mobile"`
	Password string  `json:"password"`
	Address  string  `json:"address"`
	Pincode  Numeric `json:"pincode"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Country  string  `json:"country"`
	Gender   string  `json:"gender"`
	Dob      string  `json:"dob"`
}

// DefaultGender is preselected on the sign-up form.
const DefaultGender = "male"

// ApplyDefaults fills values the sign-up form preselects.
func (r *RegisterRequest) ApplyDefaults() {
	if r.Gender == "" {
		r.Gender = DefaultGender
	}
}
