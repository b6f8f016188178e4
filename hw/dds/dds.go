// package dds holds the built-in register layout of the DDS: the control
// function registers and the RAM profile used for amplitude playback.
package dds

import (
	"slices"

	"github.com/go-faster/errors"

	"mifgen/hw/hwio"
)

// Register addresses.
const (
	AddrCFR1 = 0x00
	AddrCFR2 = 0x01
	AddrCFR3 = 0x02
	AddrRAM0 = 0x08
)

// RAM playback destination (CFR1 ram_dest).
const (
	RAMDestFrequency = iota
	RAMDestPhase
	RAMDestAmplitude
	RAMDestPolar
)

// Control function register 1.
type CFR1 struct {
	AutoClr hwio.Bitfield `hwio:"name=auto_clr,width=1,shift=13,reset=0"`
	RAMEn   hwio.Bitfield `hwio:"name=ram_en,width=1,shift=31,reset=1"`
	RAMDest hwio.Bitfield `hwio:"name=ram_dest,width=2,shift=29,reset=1"` // RAMDestPhase
}

// Control function register 2.
type CFR2 struct {
	PDClkEn      hwio.Bitfield `hwio:"name=pdclk_en,width=1,shift=11"`
	ParaEn       hwio.Bitfield `hwio:"name=parallel_enable,width=1,shift=4"`
	ParaGain     hwio.Bitfield `hwio:"name=parallel_gain,width=4,shift=0"`
	ParaHoldLast hwio.Bitfield `hwio:"name=data_assembler_hold_last,width=1,shift=6"`
}

// Control function register 3.
type CFR3 struct {
	DividerBypass hwio.Bitfield `hwio:"name=divider_bypass,width=1,shift=15"`
	DividerReset  hwio.Bitfield `hwio:"name=divider_reset,width=1,shift=14"`
}

// RAM profile 0.
type RAM0 struct {
	Mode  hwio.Bitfield `hwio:"name=ram_mode,width=4,shift=0,reset=3"`
	Start hwio.Bitfield `hwio:"name=ram_start,width=10,shift=14,reset=0"`
	Stop  hwio.Bitfield `hwio:"name=ram_stop,width=10,shift=30,reset=1023"`
	Step  hwio.Bitfield `hwio:"name=ram_step,width=16,shift=40,reset=50"`
}

// Output file names.
const (
	CFRData  = "cfr_data.mif"
	ProfData = "prof_data.mif"
)

// Outputs returns the default outputs built from the built-in registers.
func Outputs() []hwio.Output {
	return []hwio.Output{
		{
			Name:      CFRData,
			Registers: []uint64{AddrCFR1, AddrCFR2, AddrCFR3},
			DataWidth: 32,
			Policy:    hwio.AddressPad,
		},
		{
			Name:      ProfData,
			Registers: []uint64{AddrRAM0},
			DataWidth: 64,
			Policy:    hwio.AddressPad,
		},
	}
}

// Overrides maps register names to field labels to values, replacing the
// reset values of the built-in fields.
type Overrides map[string]map[string]uint64

// Registers returns the built-in registers, with overrides applied.
func Registers(ovr Overrides) ([]*hwio.Register, error) {
	defs := []struct {
		name  string
		addr  uint64
		width int
		bank  any
	}{
		{"CFR1", AddrCFR1, 32, &CFR1{}},
		{"CFR2", AddrCFR2, 32, &CFR2{}},
		{"CFR3", AddrCFR3, 32, &CFR3{}},
		{"RAM0", AddrRAM0, 64, &RAM0{}},
	}

	regs := make([]*hwio.Register, 0, len(defs))
	for _, d := range defs {
		reg, err := hwio.NewRegister(d.name, d.addr, d.width, d.bank)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}

	if err := ovr.apply(regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (ovr Overrides) apply(regs []*hwio.Register) error {
	// Sorted for deterministic error reporting.
	names := make([]string, 0, len(ovr))
	for name := range ovr {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		idx := slices.IndexFunc(regs, func(r *hwio.Register) bool { return r.Name == name })
		if idx == -1 {
			return errors.Wrapf(hwio.ErrUnknownRegister, "override of %s", name)
		}
		reg := regs[idx]

		labels := make([]string, 0, len(ovr[name]))
		for label := range ovr[name] {
			labels = append(labels, label)
		}
		slices.Sort(labels)

		for _, label := range labels {
			f, ok := reg.Field(label)
			if !ok {
				return errors.Errorf("override of %s: unknown field %q", name, label)
			}
			if err := f.SetValue(ovr[name][label]); err != nil {
				return errors.Wrapf(err, "override of %s", name)
			}
		}
	}
	return nil
}

// NewTable returns a table containing the built-in registers and the given
// outputs.
func NewTable(ovr Overrides, outputs ...hwio.Output) (*hwio.Table, error) {
	regs, err := Registers(ovr)
	if err != nil {
		return nil, err
	}

	tbl := hwio.NewTable("dds")
	for _, reg := range regs {
		if err := tbl.MapRegister(reg); err != nil {
			return nil, err
		}
	}
	for _, o := range outputs {
		tbl.AddOutput(o)
	}
	return tbl, nil
}
