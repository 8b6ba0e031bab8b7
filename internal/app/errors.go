package app

import (
	"errors"

	"github.com/avillegas/aulacall/internal/core"
)

// Refusal taxonomy. Only ErrRoomFull gets its own wire event; other join
// failures surface as a generic room-error, and errors on in-room actions
// are handled locally (logged, no event emitted). A duplicate identity is
// not an error at all: the older session is evicted and the join proceeds.
var (
	ErrRoomFull         = core.ErrRoomFull
	ErrNotAMember       = errors.New("not a room member")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidReference = errors.New("invalid reference")
)
