// Package models defines the client-side data shapes: the session pair, the
// user profile as exchanged with the remote API, registration payloads, local
// gallery items and image files picked by the user.
package models
