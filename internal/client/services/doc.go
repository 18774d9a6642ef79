// Package services implements the client flows behind each page of the
// application: sign-up and login, the session guard, profile fetch and
// update, photo upload, account deletion, and the local image gallery.
//
// Flows never print or prompt. They return an Outcome describing where the
// user goes next, or an error the caller shows inline. A *RedirectError
// means the flow ended with a forced navigation (typically to /login after
// the session was cleared).
package services
