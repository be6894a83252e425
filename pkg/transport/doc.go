// Package transport is the HTTP layer used to talk to the collector.
//
// A Client resolves paths against a base prefix (or uses them verbatim
// with WithURLType(Absolute)), encodes bodies and normalizes failures:
//
//   - GET and DELETE bodies become the query string (url.Values, maps,
//     or structs with `url` tags via go-querystring).
//   - POST bodies are JSON unless they are a Blob, a Form or an io.Reader,
//     which are sent unmodified.
//   - Accept is always application/json; Content-Type is JSON unless the
//     body or WithContentType says otherwise.
//   - Non-2xx responses become *APIError with the body decoded as JSON
//     when possible and kept as text otherwise.
//   - Network failures become *APIError with Status "REQUEST_FAILED".
//   - A canceled context yields ErrCanceled.
//
// There are no retries.
//
//	c := transport.New("https://collector.example.com/api/v1")
//	var out struct{ Results []Item `json:"results"` }
//	err := c.Post(ctx, "/client/heartbeat", body, &out,
//	    transport.WithHeader("consumerKey", key))
package transport
