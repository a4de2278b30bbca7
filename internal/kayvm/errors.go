package kayvm

import "github.com/keiv-fly/kayton-go/internal/kayerr"

// ErrWrongKind builds the Generic error used across host/* whenever a
// handle's kind does not match what an accessor expected.
func ErrWrongKind(got, want Kind) error {
	return kayerr.New(kayerr.Generic, "handle has kind %s, expected %s", got, want)
}
