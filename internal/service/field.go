package service

import (
	"bytes"
	"encoding/json"
)

// Field is an optional value. The zero value is unset.
type Field[T any] struct {
	value T
	set   bool
}

// Set returns a field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Get returns the value and whether it is set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// IsSet reports whether the field holds a value.
func (f Field[T]) IsSet() bool {
	return f.set
}

// IsZero reports whether the field is unset. Used by the omitzero JSON option.
func (f Field[T]) IsZero() bool {
	return !f.set
}

// Or returns the field's value if set, otherwise current.
func (f Field[T]) Or(current T) T {
	if f.set {
		return f.value
	}
	return current
}

// MarshalJSON encodes the value, or null when unset.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes a value; null leaves the field unset.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Field[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Set(v)
	return nil
}
