package dds

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mifgen/hw/hwio"
)

func TestBuiltinTable(t *testing.T) {
	tbl, err := NewTable(nil, Outputs()...)
	if err != nil {
		t.Fatal(err)
	}
	res, err := tbl.Resolve()
	if err != nil {
		t.Fatal(err)
	}

	type out struct {
		Name         string
		Width, Depth int
		Words        []string
	}
	var got []out
	for _, r := range res {
		o := out{Name: r.Name, Width: r.Width, Depth: r.Depth}
		for _, w := range r.Words {
			o.Words = append(o.Words, w.Text(16))
		}
		got = append(got, o)
	}

	want := []out{
		{CFRData, 40, 3, []string{"a0000000", "100000000", "200000000"}},
		{ProfData, 72, 1, []string{"8000032ffc0000003"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resolved outputs mismatch (-want +got):\n%s", diff)
	}
}

func TestOverrides(t *testing.T) {
	regs, err := Registers(Overrides{
		"CFR1": {"auto_clr": 1, "ram_dest": RAMDestAmplitude},
		"RAM0": {"ram_step": 100},
	})
	if err != nil {
		t.Fatal(err)
	}

	v, err := regs[0].Value()
	if err != nil {
		t.Fatal(err)
	}
	if v.Uint64() != 0xC0002000 {
		t.Errorf("CFR1 = %#x, want 0xc0002000", v)
	}

	step, _ := regs[3].Field("ram_step")
	if step.Value() != 100 {
		t.Errorf("ram_step = %d, want 100", step.Value())
	}
}

func TestOverridesErrors(t *testing.T) {
	tests := []struct {
		name string
		ovr  Overrides
		want error
	}{
		{"unknown register", Overrides{"CFR9": {"x": 1}}, hwio.ErrUnknownRegister},
		{"unknown field", Overrides{"CFR1": {"nope": 1}}, nil},
		{"overflow", Overrides{"CFR1": {"ram_en": 2}}, hwio.ErrValueOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Registers(tt.ovr)
			if err == nil {
				t.Fatal("Registers should fail")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Registers error = %v, want %v", err, tt.want)
			}
		})
	}
}
