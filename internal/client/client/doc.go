// Package client contains the client-side gateway to the PatinaPRO backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Login,
//     CreateUser, GetUser, UpdateUser, DeleteUser and ListUsers.
//  2. A REST/JSON implementation (see HTTPClient) against a configured base
//     URL. Each call is a single round trip tagged with an X-Request-ID.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening the
//     SQLite session database and applying embedded goose migrations.
//
// # Error Handling
//
// Every failed call returns *APIError. Its Side separates failures that never
// reached the server from replies the server rejected, and the wrapped
// sentinel can be matched with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrNotFound, ErrConflict, ErrInvalidRequest, ErrServer. UserMessage picks
// the server's "detail" text for display.
package client
