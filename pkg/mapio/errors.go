package mapio

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for store operations.
var (
	ErrMapNotFound = errors.New("map not found")
	ErrStoreClosed = errors.New("store is closed")
)

// ErrTruncatedAtom indicates an atom or its contents end before the data they
// declare.
type ErrTruncatedAtom struct {
	ID     uint32
	Offset int
	Need   int
}

func (e *ErrTruncatedAtom) Error() string {
	return fmt.Sprintf("atom %s truncated at offset %d: need %d more bytes", AtomName(e.ID), e.Offset, e.Need)
}

// ErrMissingAtom indicates a required atom is absent from its container.
type ErrMissingAtom struct {
	ID uint32
}

func (e *ErrMissingAtom) Error() string {
	return fmt.Sprintf("missing atom %s", AtomName(e.ID))
}

// ErrUnknownToken indicates an enumerated value with no entry in the token
// conversion map.
type ErrUnknownToken struct {
	Token int
	Name  string
}

func (e *ErrUnknownToken) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown token %d (%q)", e.Token, e.Name)
	}
	return fmt.Sprintf("unknown token %d", e.Token)
}

// ErrBadVersion indicates a payload atom written in an unsupported version.
type ErrBadVersion struct {
	ID      uint32
	Version int32
}

func (e *ErrBadVersion) Error() string {
	return fmt.Sprintf("atom %s has unsupported version %d", AtomName(e.ID), e.Version)
}

// ErrCorruptMap indicates the arrangement body does not describe a valid map.
type ErrCorruptMap struct {
	Reason string
}

func (e *ErrCorruptMap) Error() string {
	return fmt.Sprintf("corrupt map: %s", e.Reason)
}
