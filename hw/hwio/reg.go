package hwio

import (
	"math/big"
	"strings"

	"github.com/go-faster/errors"

	"mifgen/log"
)

// Pack composes fields into a single word, OR-ing each field's shifted value.
// Fields must not overlap, the result is then independent of their order.
func Pack(fields ...Bitfield) (*big.Int, error) {
	var (
		occupied Bitset
		word     = new(big.Int)
	)

	for i, f := range fields {
		if f.width <= 0 {
			return nil, errors.Wrapf(ErrInvalidWidth, "field %q: width %d", f.label, f.width)
		}
		start, end := uint(f.shift), uint(f.End())
		if occupied.TestRange(start, end) {
			for _, prev := range fields[:i] {
				if prev.overlaps(f) {
					return nil, errors.Wrapf(ErrOverlappingBitfield, "%s and %s", prev, f)
				}
			}
		}
		occupied.SetRange(start, end)
		word.Or(word, f.Shifted())
	}
	return word, nil
}

// Prefix folds addr into the bits above a word of the given data width, that
// is (addr << width) | data. addrBits is the number of bits reserved to the
// address, addr must fit in them.
func Prefix(addr uint64, addrBits int, data *big.Int, width int) (*big.Int, error) {
	if width <= 0 {
		return nil, errors.Wrapf(ErrInvalidWidth, "data width %d", width)
	}
	if addrBits <= 0 {
		return nil, errors.Wrapf(ErrInvalidWidth, "address width %d", addrBits)
	}
	if data.BitLen() > width {
		return nil, errors.Wrapf(ErrValueOverflow, "data %#x does not fit in %d bits", data, width)
	}
	if addrBits < 64 && addr>>addrBits != 0 {
		return nil, errors.Wrapf(ErrValueOverflow, "address %#x does not fit in %d bits", addr, addrBits)
	}

	word := new(big.Int).SetUint64(addr)
	word.Lsh(word, uint(width))
	return word.Or(word, data), nil
}

// A Register is a named set of bitfields, located at a given address.
type Register struct {
	Name   string
	Addr   uint64
	Width  int // data width in bits, 0 means unbounded
	Fields []Bitfield
}

// Value packs all register fields. If the register has a width, all fields
// must fit within it.
func (reg *Register) Value() (*big.Int, error) {
	if reg.Width > 0 {
		for _, f := range reg.Fields {
			if f.End() > reg.Width {
				return nil, errors.Wrapf(ErrFieldOutOfRange, "register %s: %s in %d-bit register", reg.Name, f, reg.Width)
			}
		}
	}

	v, err := Pack(reg.Fields...)
	if err != nil {
		return nil, errors.Wrapf(err, "register %s", reg.Name)
	}

	log.ModHwIo.DebugZ("packed register").
		String("name", reg.Name).
		Hex("addr", reg.Addr).
		String("value", "0x"+v.Text(16)).
		End()
	return v, nil
}

// Field returns the field with the given label.
func (reg *Register) Field(label string) (*Bitfield, bool) {
	for i := range reg.Fields {
		if reg.Fields[i].label == label {
			return &reg.Fields[i], true
		}
	}
	return nil, false
}

func (reg Register) String() string {
	var sb strings.Builder
	sb.WriteString(reg.Name)
	sb.WriteByte('{')
	for i, f := range reg.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
