// Package cli provides the interactive profilekeeper command-line client.
//
// The REPL stands in for the pages of a browser application: every command
// visits a route, runs the flow that page would run and follows whatever
// navigation the flow asks for. The prompt always shows the current route.
//
// Pages and their commands:
//   - /                        register
//   - /login                   login
//   - /home                    home, photo <path>, delete-account, logout
//   - /token-with-user-details details
//   - /update-without-token    edit
//   - /token-with-update       edit-token
//   - /cards                   gallery, upload, replace, remove, clear-gallery, cart
//
// Arguments may be quoted, so paths with spaces work: upload "my trip.png".
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
