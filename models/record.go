package models

import (
	"encoding/json"
	"math"
)

// Record is a raw JSON object as read from the remote service or the local store.
type Record map[string]any

// stringField returns the value when it is a string, otherwise ""
func stringField(raw Record, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

// stringsField returns the string elements of an array value, otherwise an
// empty (non-nil) slice. Non-string elements are dropped.
func stringsField(raw Record, key string) []string {
	out := []string{}
	switch v := raw[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// numberField returns the value when it is a finite number, otherwise 0
func numberField(raw Record, key string) float64 {
	var f float64
	switch v := raw[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// enumField returns the value when it is one of allowed, otherwise def
func enumField(raw Record, key string, allowed map[string]struct{}, def string) string {
	s := stringField(raw, key)
	if _, ok := allowed[s]; ok {
		return s
	}
	return def
}

// Key returns the string form of the key field and whether it was present.
func (r Record) Key(field string) (string, bool) {
	switch v := r[field].(type) {
	case string:
		return v, v != ""
	case float64:
		b, _ := json.Marshal(v)
		return string(b), true
	case json.Number:
		return v.String(), true
	}
	return "", false
}

// MatchKey is Key tagged with the JSON type of the value, so the string "1"
// and the number 1 never compare equal.
func (r Record) MatchKey(field string) (string, bool) {
	key, ok := r.Key(field)
	if !ok {
		return "", false
	}
	if _, isString := r[field].(string); isString {
		return "s:" + key, true
	}
	return "n:" + key, true
}

// Clone returns a shallow copy of r
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
