package hwio

import "github.com/go-faster/errors"

var (
	ErrInvalidWidth        = errors.New("invalid width")
	ErrInvalidShift        = errors.New("invalid shift")
	ErrValueOverflow       = errors.New("value overflow")
	ErrOverlappingBitfield = errors.New("overlapping bitfield")
	ErrFieldOutOfRange     = errors.New("bitfield exceeds register width")
	ErrUnknownRegister     = errors.New("unknown register")
)
