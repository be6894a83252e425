// Package persistence stores the tracker's identity values (uuId,
// signature, anonymous_id) across runs.
//
// A Store is built once with a requested Backend:
//
//   - LocalStorage (default): values go to a storage.Storage and are
//     mirrored into cookies. Reads prefer local storage and fall back to
//     the cookie, so a value survives local storage disappearing.
//   - Cookie: values only go to cookies. This mode is also chosen when the
//     local backend is missing or reports itself unsupported.
//   - None: nothing is read or written.
//
// Every key is prefixed before it reaches a backend. Structured values are
// JSON-encoded for local storage and refused by cookies; reads decode text
// that starts with '{' or '['. Backend failures are logged with ErrStorage
// and never returned.
package persistence
