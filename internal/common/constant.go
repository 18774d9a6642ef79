// Package common contains constants and sentinel errors shared by the client
// and the mock server.
package common

// AuthorizationHeaderName carries the raw session token, without any
// "Bearer " prefix, on every authenticated request.
const AuthorizationHeaderName = "Authorization"

// Keys of the persisted local state.
const (
	KeyToken          = "token"
	KeyUserID         = "userId"
	KeyUserDetails    = "userDetails"
	KeyUploadedImages = "uploadedImages"
)

// MaxImageSize is the largest accepted image upload, in bytes.
const MaxImageSize = 5_000_000

// Remote profile API paths, relative to the configured base URL.
const (
	PathRegister        = "/user/add_user"
	PathLogin           = "/user/login"
	PathUserDetails     = "/user/userDetails"
	PathDisplay         = "/user/display"
	PathUpdateWithToken = "/user/updateWithToken"
	PathUpdateUser      = "/user/updateUser"
	PathUpdateWithPhoto = "/user/updateWithPhoto"
	PathDeleteUser      = "/user/delete"
	PathDisplayCart     = "/cart/display_cart"
)
