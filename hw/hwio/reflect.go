package hwio

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

var bitfieldType = reflect.TypeFor[Bitfield]()

// InitFields initializes all Bitfield fields of the struct pointed to by
// bank, and returns them in declaration order. For this function to work,
// fields must have a struct tag "hwio", containing the following options:
//
//	width=N     Width of the field in bits (mandatory).
//
//	shift=N     Bit offset of the field from the LSB (mandatory).
//
//	reset=N     Initial value (default to zero).
//
//	name=S      Field label, default to the Go field name.
//
// Numbers can be given in any base accepted by strconv.ParseUint with base 0.
func InitFields(bank any) ([]Bitfield, error) {
	pv := reflect.ValueOf(bank)
	if pv.Kind() != reflect.Pointer || pv.Elem().Kind() != reflect.Struct {
		return nil, errors.Errorf("invalid bank type %T: want pointer to struct", bank)
	}

	v := pv.Elem()
	vt := v.Type()

	var fields []Bitfield
	for i := range vt.NumField() {
		sf := vt.Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		if sf.Type != bitfieldType {
			return nil, errors.Errorf("field %s: hwio tag on non-Bitfield type %s", sf.Name, sf.Type)
		}

		bf, err := parseFieldTag(sf.Name, tag)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", vt.Name(), sf.Name)
		}
		v.Field(i).Set(reflect.ValueOf(bf))
		fields = append(fields, bf)
	}
	return fields, nil
}

// MustInitFields is like InitFields but panics on error.
func MustInitFields(bank any) []Bitfield {
	fields, err := InitFields(bank)
	if err != nil {
		panic(err)
	}
	return fields
}

// NewRegister builds a register out of the Bitfield fields declared by bank.
// See InitFields.
func NewRegister(name string, addr uint64, width int, bank any) (*Register, error) {
	fields, err := InitFields(bank)
	if err != nil {
		return nil, errors.Wrapf(err, "register %s", name)
	}
	return &Register{Name: name, Addr: addr, Width: width, Fields: fields}, nil
}

func parseFieldTag(name, tag string) (Bitfield, error) {
	var (
		label        = name
		width, shift = -1, -1
		reset        uint64
	)

	for _, opt := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		if key == "name" {
			label = val
			continue
		}

		n, err := strconv.ParseUint(val, 0, 64)
		if err != nil {
			return Bitfield{}, errors.Wrapf(err, "option %q", opt)
		}
		switch key {
		case "width":
			width = int(n)
		case "shift":
			shift = int(n)
		case "reset":
			reset = n
		default:
			return Bitfield{}, errors.Errorf("unknown option %q", key)
		}
	}

	if width == -1 {
		return Bitfield{}, errors.Wrap(ErrInvalidWidth, "missing width option")
	}
	if shift == -1 {
		return Bitfield{}, errors.Wrap(ErrInvalidShift, "missing shift option")
	}
	return NewBitfield(label, width, shift, reset)
}
