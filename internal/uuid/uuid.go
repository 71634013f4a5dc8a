// Package uuid wraps google/uuid for binding route and query parameters.
package uuid

import (
	"fmt"

	google_uuid "github.com/google/uuid"
)

// UUID is a google/uuid UUID that gin can bind from a parameter.
type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

// UnmarshalParam parses p. The empty string is Nil, so that a required
// binding reports it as missing.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return fmt.Errorf("%q is not a valid UUID: %w", p, err)
	}

	*u = UUID{parsed}
	return nil
}
