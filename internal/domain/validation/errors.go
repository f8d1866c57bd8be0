package validation

import (
	"errors"
	"sort"
	"strings"
)

var ErrConfigurationInvalid = errors.New("configuration invalid")

// Errors maps a field key to the message shown next to it.
type Errors map[string]string

func (e Errors) Empty() bool { return len(e) == 0 }

// Fields returns the failing field keys in a stable order.
func (e Errors) Fields() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Err wraps a non-empty map as an *Error, nil otherwise.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return &Error{Fields: e}
}

// Error is a ConfigurationInvalid failure carrying the field messages.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	return "configuration invalid: " + strings.Join(e.Fields.Fields(), ", ")
}

func (e *Error) Unwrap() error { return ErrConfigurationInvalid }
