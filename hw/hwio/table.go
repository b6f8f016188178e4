package hwio

import (
	"math/big"

	"github.com/go-faster/errors"

	"mifgen/log"
)

// WidthPolicy selects how the declared width of an output word is computed
// from its data width.
type WidthPolicy uint8

const (
	// AddressPad reserves PadBits of address above the data.
	AddressPad WidthPolicy = iota
	// ExactWidth reserves exactly Output.AddrBits of address above the data.
	ExactWidth
)

// PadBits is the number of address bits reserved by the AddressPad policy.
const PadBits = 8

func (p WidthPolicy) String() string {
	switch p {
	case AddressPad:
		return "pad"
	case ExactWidth:
		return "exact"
	}
	return "unknown"
}

// An Output describes a ROM image made of one address-prefixed word per
// register, in the order given by Registers.
type Output struct {
	Name      string
	Registers []uint64
	DataWidth int
	Policy    WidthPolicy
	AddrBits  int // only used with ExactWidth
	Depth     int // declared depth, 0 means len(Registers)
}

// AddressBits returns the number of bits reserved to the register address.
func (o Output) AddressBits() int {
	if o.Policy == ExactWidth {
		return o.AddrBits
	}
	return PadBits
}

// DeclaredWidth returns the width of a full ROM word (address + data).
func (o Output) DeclaredWidth() int {
	return o.AddressBits() + o.DataWidth
}

// Resolved is the packed content of an Output.
type Resolved struct {
	Name  string
	Width int
	Depth int
	Words []*big.Int
}

// A Table maps register addresses to register definitions, and lists the
// outputs built from them.
type Table struct {
	Name string

	regs    map[uint64]*Register
	outputs []Output
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.regs = make(map[uint64]*Register)
	t.outputs = nil
}

// MapRegister adds reg to the table, at reg.Addr.
func (t *Table) MapRegister(reg *Register) error {
	if prev, ok := t.regs[reg.Addr]; ok {
		return errors.Errorf("table %s: register %s already mapped at %#x (by %s)", t.Name, reg.Name, reg.Addr, prev.Name)
	}
	log.ModHwIo.DebugZ("mapping register").
		String("table", t.Name).
		String("name", reg.Name).
		Hex("addr", reg.Addr).
		Int("fields", len(reg.Fields)).
		End()
	t.regs[reg.Addr] = reg
	return nil
}

// Lookup returns the register mapped at addr.
func (t *Table) Lookup(addr uint64) (*Register, bool) {
	reg, ok := t.regs[addr]
	return reg, ok
}

// AddOutput appends an output definition. Registers are only looked up during
// Resolve.
func (t *Table) AddOutput(o Output) {
	t.outputs = append(t.outputs, o)
}

func (t *Table) Outputs() []Output {
	return t.outputs
}

// Resolve packs every output of the table, in the order they were added.
func (t *Table) Resolve() ([]Resolved, error) {
	res := make([]Resolved, 0, len(t.outputs))
	for _, o := range t.outputs {
		r, err := t.ResolveOutput(o)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}

// ResolveOutput packs each register listed by o and prefixes it with its
// address. It fails with ErrUnknownRegister if a register is missing.
func (t *Table) ResolveOutput(o Output) (Resolved, error) {
	if o.DataWidth <= 0 {
		return Resolved{}, errors.Wrapf(ErrInvalidWidth, "output %s: data width %d", o.Name, o.DataWidth)
	}

	r := Resolved{
		Name:  o.Name,
		Width: o.DeclaredWidth(),
		Depth: o.Depth,
		Words: make([]*big.Int, 0, len(o.Registers)),
	}
	if r.Depth == 0 {
		r.Depth = len(o.Registers)
	}

	for _, addr := range o.Registers {
		reg, ok := t.regs[addr]
		if !ok {
			return Resolved{}, errors.Wrapf(ErrUnknownRegister, "output %s: register %#x", o.Name, addr)
		}
		if reg.Width == 0 {
			// An unbounded register takes the width of the output it's
			// emitted into.
			cpy := *reg
			cpy.Width = o.DataWidth
			reg = &cpy
		}
		if reg.Width > o.DataWidth {
			return Resolved{}, errors.Wrapf(ErrFieldOutOfRange, "output %s: %d-bit register %s in %d-bit data", o.Name, reg.Width, reg.Name, o.DataWidth)
		}

		v, err := reg.Value()
		if err != nil {
			return Resolved{}, errors.Wrapf(err, "output %s", o.Name)
		}
		word, err := Prefix(reg.Addr, o.AddressBits(), v, o.DataWidth)
		if err != nil {
			return Resolved{}, errors.Wrapf(err, "output %s: register %s", o.Name, reg.Name)
		}
		r.Words = append(r.Words, word)
	}
	return r, nil
}
