package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/google/go-querystring/query"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
	contentTypeBlob = "application/octet-stream"
)

// Blob is a raw payload sent unmodified, like a browser File.
type Blob struct {
	Data        []byte
	ContentType string
}

// Form is a pre-encoded application/x-www-form-urlencoded body.
type Form string

// encodeQuery serializes v into a query string without the leading '?'.
// Supported: nil, string (already encoded), url.Values, map[string]string,
// map[string]any and structs with `url` tags.
func encodeQuery(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimPrefix(val, "?"), nil
	case Form:
		return string(val), nil
	case url.Values:
		return val.Encode(), nil
	case map[string]string:
		vals := make(url.Values, len(val))
		for k, s := range val {
			vals.Set(k, s)
		}
		return vals.Encode(), nil
	case map[string]any:
		vals := make(url.Values, len(val))
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if val[k] == nil {
				continue
			}
			vals.Set(k, fmt.Sprint(val[k]))
		}
		return vals.Encode(), nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return "", fmt.Errorf("%w: cannot encode %T as query", ErrInvalidBody, v)
	}
	vals, err := query.Values(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return vals.Encode(), nil
}

// encodeBody returns the request body and its natural content type.
func encodeBody(v any) (io.Reader, string, error) {
	switch val := v.(type) {
	case nil:
		return nil, "", nil
	case Blob:
		ct := val.ContentType
		if ct == "" {
			ct = contentTypeBlob
		}
		return bytes.NewReader(val.Data), ct, nil
	case *Blob:
		if val == nil {
			return nil, "", nil
		}
		return encodeBody(*val)
	case Form:
		return strings.NewReader(string(val)), ContentTypeForm, nil
	case io.Reader:
		return val, "", nil
	case json.RawMessage:
		return bytes.NewReader(val), ContentTypeJSON, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return bytes.NewReader(data), ContentTypeJSON, nil
}

func appendQuery(u, q string) string {
	if q == "" {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + q
	}
	return u + "?" + q
}
