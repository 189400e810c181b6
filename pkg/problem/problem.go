// Package problem models RFC 7807 problem details: a JSON error body with a few
// well-known members and any number of extension members in the same namespace.
package problem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"strings"
)

const (
	// MediaType is the content type of a JSON problem details body.
	MediaType = "application/problem+json"
	// DefaultType is the problem type implied when Type is absent.
	DefaultType = "about:blank"
)

const (
	keyType     = "type"
	keyTitle    = "title"
	keyDetail   = "detail"
	keyInstance = "instance"
	keyStatus   = "status"
)

// Details is a problem details object.
//
// A nil named field is absent and is omitted on the wire; a pointer to "" is
// present and empty. Extensions holds every other top-level member and is
// flattened next to the named fields when encoded. When an extension key
// collides with a named field, the named field wins on encode.
type Details struct {
	// Type is a URI reference that identifies the problem type.
	Type *string
	// Title is a short summary of the problem type. It should not change
	// between occurrences of the same problem.
	Title *string
	// Detail explains this occurrence of the problem.
	Detail *string
	// Instance is a URI reference that identifies this occurrence.
	Instance *string
	// Extensions are additional members. Keys compare byte-wise.
	Extensions map[string]any
}

// New returns a Details with every named field absent and no extensions.
func New() *Details {
	return &Details{Extensions: map[string]any{}}
}

// String returns a pointer to s, for populating named fields.
func String(s string) *string { return &s }

// Parse decodes a problem details body.
func Parse(data []byte) (*Details, error) {
	d := New()
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("decode problem details: %w", err)
	}
	return d, nil
}

// IsProblem reports whether contentType names the problem details JSON media type.
func IsProblem(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, MediaType)
}

// TypeOrDefault returns Type, or DefaultType when it is absent.
func (d *Details) TypeOrDefault() string {
	if d == nil || d.Type == nil {
		return DefaultType
	}
	return *d.Type
}

// Status returns the "status" extension member when it holds an integer.
func (d *Details) Status() (int, bool) {
	if d == nil {
		return 0, false
	}
	switch v := d.Extensions[keyStatus].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// Error makes a problem usable as a Go error.
func (d *Details) Error() string {
	if d == nil {
		return "problem: " + DefaultType
	}
	title := deref(d.Title)
	detail := deref(d.Detail)
	switch {
	case title != "" && detail != "":
		return title + ": " + detail
	case title != "":
		return title
	case detail != "":
		return detail
	default:
		return "problem: " + d.TypeOrDefault()
	}
}

// MarshalJSON encodes d as a single flat JSON object.
func (d Details) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.flatten())
}

// UnmarshalJSON decodes a JSON object, routing unknown members into Extensions.
// Numbers are kept as json.Number.
func (d *Details) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	out := Details{Extensions: make(map[string]any, len(raw))}
	for key, val := range raw {
		var err error
		switch key {
		case keyType:
			out.Type, err = stringMember(key, val)
		case keyTitle:
			out.Title, err = stringMember(key, val)
		case keyDetail:
			out.Detail, err = stringMember(key, val)
		case keyInstance:
			out.Instance, err = stringMember(key, val)
		default:
			out.Extensions[key] = val
		}
		if err != nil {
			return err
		}
	}

	*d = out
	return nil
}

// MarshalYAML renders the same flat shape as MarshalJSON.
func (d Details) MarshalYAML() (interface{}, error) {
	flat := d.flatten()
	for k, v := range flat {
		flat[k] = plainValue(v)
	}
	return flat, nil
}

func (d Details) flatten() map[string]any {
	out := make(map[string]any, len(d.Extensions)+4)
	for k, v := range d.Extensions {
		out[k] = v
	}
	putMember(out, keyType, d.Type)
	putMember(out, keyTitle, d.Title)
	putMember(out, keyDetail, d.Detail)
	putMember(out, keyInstance, d.Instance)
	return out
}

func putMember(out map[string]any, key string, val *string) {
	if val != nil {
		out[key] = *val
	}
}

func stringMember(key string, val any) (*string, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	default:
		return nil, fmt.Errorf("problem member %q must be a string, got %T", key, val)
	}
}

// plainValue converts json.Number values (at any depth) to int64 or float64 so
// YAML encoders emit numbers rather than quoted strings.
func plainValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = plainValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
