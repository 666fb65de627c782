package cube

import "errors"

var (
	// ErrInvalidNotation is returned when a move notation string cannot be parsed.
	ErrInvalidNotation = errors.New("cube: invalid move notation")

	// ErrInvalidState is returned by FaceCube.AsPieces when no consistent
	// piece/orientation assignment exists for the given facelet colours.
	ErrInvalidState = errors.New("cube: face colours do not correspond to a valid cube state")
)
