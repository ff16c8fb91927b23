// Package cli provides the interactive PatinaPRO terminal client.
//
// It wires configuration, the local session database, the REST gateway and
// the client flows, and supplies console implementations of the host
// capabilities: notifications are printed, confirmations are read as lines,
// the camera reads an image file, the location is fixed by configuration
// and the map is rendered as text.
//
// Key features:
//   - Register / Login / Logout
//   - First-time profile form after login, personal information screen
//   - Password change and account deletion
//   - Scheduled routes, route selection and distance to the meeting point
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
