package firestoreevent

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a single typed Firestore value, keyed by its kind
// (stringValue, booleanValue, arrayValue, ...).
type Value map[string]json.RawMessage

type arrayValue struct {
	Values []Value `json:"values"`
}

type mapValue struct {
	Fields map[string]Value `json:"fields"`
}

func decodeFields(fields map[string]Value) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(fields))
	for key, v := range fields {
		native, err := v.Native()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out[key] = native
	}
	return out, nil
}

// Native converts the value to the Go type the Firestore client would
// return for it: string, bool, int64, float64, time.Time, []byte,
// []interface{}, map[string]interface{} or nil.
func (v Value) Native() (interface{}, error) {
	if len(v) != 1 {
		return nil, fmt.Errorf("%w: value must have exactly one kind, got %d", ErrMalformedEvent, len(v))
	}

	for kind, raw := range v {
		switch kind {
		case "nullValue":
			return nil, nil
		case "stringValue", "referenceValue":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
			}
			return s, nil
		case "booleanValue":
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
			}
			return b, nil
		case "integerValue":
			return parseInteger(raw)
		case "doubleValue":
			return parseDouble(raw)
		case "timestampValue":
			var ts time.Time
			if err := json.Unmarshal(raw, &ts); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
			}
			return ts, nil
		case "bytesValue":
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
			}
			b, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
			}
			return b, nil
		case "geoPointValue":
			var geo map[string]float64
			if err := json.Unmarshal(raw, &geo); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
			}
			return map[string]interface{}{"latitude": geo["latitude"], "longitude": geo["longitude"]}, nil
		case "arrayValue":
			var arr arrayValue
			if err := json.Unmarshal(raw, &arr); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
			}
			out := make([]interface{}, 0, len(arr.Values))
			for i, elem := range arr.Values {
				native, err := elem.Native()
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				out = append(out, native)
			}
			return out, nil
		case "mapValue":
			var m mapValue
			if err := json.Unmarshal(raw, &m); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, kind, err)
			}
			return decodeFields(m.Fields)
		default:
			return nil, fmt.Errorf("%w: unknown value kind %q", ErrMalformedEvent, kind)
		}
	}
	return nil, nil
}

// int64 values arrive as JSON strings, but plain numbers are accepted too
func parseInteger(raw json.RawMessage) (int64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: integerValue: %v", ErrMalformedEvent, err)
	}
	return n, nil
}

// doubleValue uses the strings "NaN", "Infinity" and "-Infinity" for
// non-finite numbers
func parseDouble(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("%w: doubleValue: %v", ErrMalformedEvent, err)
	}
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: doubleValue: %v", ErrMalformedEvent, err)
	}
	return f, nil
}
