package persistence

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// encode turns v into its stored text. ok is false when v should not be
// written at all. structured reports whether the text is JSON for a
// non-scalar value.
func encode(v any) (text string, structured, ok bool, err error) {
	switch val := v.(type) {
	case nil:
		return "", false, false, nil
	case string:
		return val, false, val != "", nil
	case []byte:
		return string(val), false, len(val) > 0, nil
	case bool:
		// false is falsy and dropped like any other empty value.
		return strconv.FormatBool(val), false, val, nil
	case json.Number:
		return val.String(), false, val != "", nil
	case fmt.Stringer:
		s := val.String()
		return s, false, s != "", nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), false, rv.Len() > 0, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), false, rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), false, rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), false, rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), false, rv.Float() != 0, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false, false, nil
		}
		return encode(rv.Elem().Interface())
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", true, false, err
	}
	return string(data), true, true, nil
}

// decode parses text that looks like a JSON object or array. Anything else
// is returned unchanged. Unparseable JSON-looking text yields nil.
func decode(text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	if text[0] != '{' && text[0] != '[' {
		return text, nil
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}
