package domain

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ID is an opaque identifier issued by the recommendation service.
// The service may encode ids as JSON numbers or strings and expects them
// back in the same form, so an ID keeps the kind of token it came from:
//   - a JSON number token ("42") is a numeric id
//   - a quoted JSON string ("\"42\"") is a string id that would otherwise
//     read as a number or as a quoted token
//   - anything else ("a1b2") is a plain string id
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		if isNumberToken(s) || (len(s) > 0 && s[0] == '"') {
			*id = ID(data)
			return nil
		}
		*id = ID(s)
		return nil
	}
	if !isNumberToken(string(data)) {
		return fmt.Errorf("decode id: unexpected token %q", data)
	}
	*id = ID(data)
	return nil
}

// MarshalJSON emits the id in the form it was received
func (id ID) MarshalJSON() ([]byte, error) {
	if id.quoted() || isNumberToken(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the id value without JSON quoting
func (id ID) String() string {
	if id.quoted() {
		var s string
		if err := json.Unmarshal([]byte(id), &s); err == nil {
			return s
		}
	}
	return string(id)
}

func (id ID) quoted() bool {
	return len(id) >= 2 && id[0] == '"' && json.Valid([]byte(id))
}

// isNumberToken reports whether s is exactly one JSON number token
func isNumberToken(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	if s[len(s)-1] < '0' || s[len(s)-1] > '9' {
		return false
	}
	return json.Valid([]byte(s))
}
