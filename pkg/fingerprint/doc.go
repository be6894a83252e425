// Package fingerprint provides best-effort visitor fingerprints.
//
// A Provider returns a fingerprint or an error. Resolve wraps a provider
// so that callers never see a failure: errors, panics and empty results
// all become "".
//
// Providers:
//
//   - Host: hashes the machine id, hostname, OS, architecture and
//     timezone (via go-sysinfo). Suited to CLIs and daemons.
//   - Request: hashes an *http.Request's User-Agent, Accept headers,
//     client IP and header set. Suited to server-side page tracking.
//   - Context: reads a fingerprint placed in the context by Middleware.
//   - Static and Func: fixed values and adapters.
//
// All hashing providers return 32 lowercase hex characters.
//
//	fp := fingerprint.Resolve(ctx, fingerprint.Host{}, log)
package fingerprint
