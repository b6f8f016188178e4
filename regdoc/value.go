package regdoc

import (
	"strconv"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidOption = errors.New("invalid option")

type ValueKind uint8

const (
	NoValue ValueKind = iota
	IntValue
	BoolValue
)

// Value is an option value, either an integer or a boolean.
type Value struct {
	Kind ValueKind
	Int  int64
	Bool bool
}

func Int(v int64) *Value { return &Value{Kind: IntValue, Int: v} }
func Bool(b bool) *Value { return &Value{Kind: BoolValue, Bool: b} }

// Uint returns the value as an unsigned integer, booleans are coerced to 0
// or 1.
func (v Value) Uint() (uint64, error) {
	switch v.Kind {
	case BoolValue:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case IntValue:
		if v.Int < 0 {
			return 0, errors.Wrapf(ErrInvalidOption, "negative value %d", v.Int)
		}
		return uint64(v.Int), nil
	}
	return 0, errors.Wrap(ErrInvalidOption, "missing value")
}

func (v Value) String() string {
	switch v.Kind {
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	}
	return "<none>"
}

// UnmarshalTOML implements toml.Unmarshaler.
func (v *Value) UnmarshalTOML(data any) error {
	switch x := data.(type) {
	case bool:
		*v = Value{Kind: BoolValue, Bool: x}
	case int64:
		*v = Value{Kind: IntValue, Int: x}
	default:
		return errors.Wrapf(ErrInvalidOption, "value must be an integer or a boolean, got %T", data)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Wrapf(ErrInvalidOption, "line %d: value must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = Value{Kind: BoolValue, Bool: b}
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return err
		}
		*v = Value{Kind: IntValue, Int: i}
	default:
		return errors.Wrapf(ErrInvalidOption, "line %d: value must be an integer or a boolean, got %q", node.Line, node.Value)
	}
	return nil
}

// Bits is the bit position of an option: either a single bit index, or an
// inclusive range of bit indices [lo, hi].
type Bits struct {
	Lo, Hi int
	Range  bool // given as a range
	set    bool
}

func Bit(n int) Bits           { return Bits{Lo: n, Hi: n, set: true} }
func BitRange(a, b int) Bits   { return newBitRange(a, b) }
func (b Bits) IsSet() bool     { return b.set }
func (b Bits) Shift() int      { return b.Lo }
func (b Bits) RangeWidth() int { return b.Hi - b.Lo + 1 }

func newBitRange(a, b int) Bits {
	if a > b {
		a, b = b, a
	}
	return Bits{Lo: a, Hi: b, Range: true, set: true}
}

func bitsFromInts(ns []int64) (Bits, error) {
	for _, n := range ns {
		if n < 0 {
			return Bits{}, errors.Wrapf(ErrInvalidOption, "negative bit index %d", n)
		}
	}
	switch len(ns) {
	case 1:
		return Bits{Lo: int(ns[0]), Hi: int(ns[0]), Range: true, set: true}, nil
	case 2:
		return newBitRange(int(ns[0]), int(ns[1])), nil
	}
	return Bits{}, errors.Wrapf(ErrInvalidOption, "bit range must have 1 or 2 elements, got %d", len(ns))
}

// UnmarshalTOML implements toml.Unmarshaler.
func (b *Bits) UnmarshalTOML(data any) error {
	switch x := data.(type) {
	case int64:
		nb, err := bitsFromInts([]int64{x})
		if err != nil {
			return err
		}
		nb.Range = false
		*b = nb
		return nil
	case []any:
		ns := make([]int64, len(x))
		for i, e := range x {
			n, ok := e.(int64)
			if !ok {
				return errors.Wrapf(ErrInvalidOption, "bit index must be an integer, got %T", e)
			}
			ns[i] = n
		}
		nb, err := bitsFromInts(ns)
		if err != nil {
			return err
		}
		*b = nb
		return nil
	}
	return errors.Wrapf(ErrInvalidOption, "bits must be an integer or a list, got %T", data)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *Bits) UnmarshalYAML(node *yaml.Node) error {
	var (
		ns  []int64
		err error
	)
	switch node.Kind {
	case yaml.ScalarNode:
		var n int64
		err = node.Decode(&n)
		ns = []int64{n}
	case yaml.SequenceNode:
		err = node.Decode(&ns)
	default:
		return errors.Wrapf(ErrInvalidOption, "line %d: bits must be an integer or a list", node.Line)
	}
	if err != nil {
		return errors.Wrapf(ErrInvalidOption, "line %d: %v", node.Line, err)
	}

	nb, err := bitsFromInts(ns)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	nb.Range = node.Kind == yaml.SequenceNode
	*b = nb
	return nil
}
