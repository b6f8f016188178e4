package hwio

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/go-faster/errors"
)

// MaxFieldWidth is the widest value a single Bitfield can hold. Wider
// registers are made of several fields.
const MaxFieldWidth = 64

// A Bitfield is a named value occupying the bits [shift, shift+width) of a
// larger word.
type Bitfield struct {
	label string
	width int
	shift int
	value uint64
}

// NewBitfield returns a bitfield, after checking that width and shift are
// valid and that value fits in width bits.
func NewBitfield(label string, width, shift int, value uint64) (Bitfield, error) {
	if width <= 0 || width > MaxFieldWidth {
		return Bitfield{}, errors.Wrapf(ErrInvalidWidth, "field %q: width %d", label, width)
	}
	if shift < 0 {
		return Bitfield{}, errors.Wrapf(ErrInvalidShift, "field %q: shift %d", label, shift)
	}

	bf := Bitfield{label: label, width: width, shift: shift}
	if err := bf.SetValue(value); err != nil {
		return Bitfield{}, err
	}
	return bf, nil
}

// MustBitfield is like NewBitfield but panics on error. Only meant to be used
// for static definitions.
func MustBitfield(label string, width, shift int, value uint64) Bitfield {
	bf, err := NewBitfield(label, width, shift, value)
	if err != nil {
		panic(err)
	}
	return bf
}

// SetValue replaces the field value, failing with ErrValueOverflow if v
// doesn't fit in the field width.
func (bf *Bitfield) SetValue(v uint64) error {
	if bits.Len64(v) > bf.width {
		return errors.Wrapf(ErrValueOverflow, "field %q: value %#x does not fit in %d bits", bf.label, v, bf.width)
	}
	bf.value = v
	return nil
}

func (bf Bitfield) Label() string { return bf.label }
func (bf Bitfield) Width() int    { return bf.width }
func (bf Bitfield) Shift() int    { return bf.shift }
func (bf Bitfield) Value() uint64 { return bf.value }

// End returns the bit index just above the field.
func (bf Bitfield) End() int { return bf.shift + bf.width }

// Shifted returns value << shift.
func (bf Bitfield) Shifted() *big.Int {
	v := new(big.Int).SetUint64(bf.value)
	return v.Lsh(v, uint(bf.shift))
}

// overlaps reports whether bf and other share at least one bit.
func (bf Bitfield) overlaps(other Bitfield) bool {
	return bf.shift < other.End() && other.shift < bf.End()
}

func (bf Bitfield) String() string {
	return fmt.Sprintf("%s[%d:%d]=%#x", bf.label, bf.End()-1, bf.shift, bf.value)
}
