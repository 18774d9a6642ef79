// Package client contains the client-side building blocks that reach outside
// the process.
//
// # Overview
//
// The package provides:
//  1. The contract of the remote profile service (see the Client interface):
//     Register, Login, GetUserDetails, Display, UpdateWithToken, UpdateUser,
//     UpdatePhoto, DeleteUser and DisplayCart.
//  2. A concrete HTTP/JSON implementation (see HTTPClient). Tokens are sent
//     verbatim in the Authorization header and every response is decoded
//     from the {success, message, data} envelope.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations,
//     NewRepositories), wiring an SQLite database with embedded goose
//     migrations.
//
// # Error Handling
//
//   - ErrUnauthorized: HTTP 401. Callers must treat the session as dead.
//   - *APIError: the server answered on purpose (success=false or another
//     non-2xx status); Message holds its text when present.
//   - ErrUnavailable / ErrMalformedResponse: transport or decoding failures.
//
// Nothing is retried here.
package client
