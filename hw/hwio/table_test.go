package hwio_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mifgen/hw/hwio"
)

func newTestTable(tb testing.TB) *hwio.Table {
	tb.Helper()

	tbl := hwio.NewTable("test")
	regs := []*hwio.Register{
		{Name: "CFR1", Addr: 0, Width: 32, Fields: []hwio.Bitfield{
			hwio.MustBitfield("auto_clr", 1, 13, 1),
			hwio.MustBitfield("ram_en", 1, 31, 1),
			hwio.MustBitfield("ram_dest", 2, 29, 1),
		}},
		{Name: "CFR2", Addr: 1, Width: 32},
		{Name: "CFR3", Addr: 2, Width: 32, Fields: []hwio.Bitfield{
			hwio.MustBitfield("divider_bypass", 1, 15, 1),
		}},
		{Name: "RAM0", Addr: 8, Fields: []hwio.Bitfield{
			hwio.MustBitfield("ram_mode", 4, 0, 3),
			hwio.MustBitfield("ram_stop", 10, 30, 1023),
			hwio.MustBitfield("ram_step", 16, 40, 50),
		}},
	}
	for _, reg := range regs {
		if err := tbl.MapRegister(reg); err != nil {
			tb.Fatal(err)
		}
	}
	return tbl
}

func hexWords(r hwio.Resolved) []string {
	var s []string
	for _, w := range r.Words {
		s = append(s, w.Text(16))
	}
	return s
}

func TestTableResolve(t *testing.T) {
	tbl := newTestTable(t)
	tbl.AddOutput(hwio.Output{
		Name:      "cfr_data.mif",
		Registers: []uint64{0, 1, 2},
		DataWidth: 32,
		Policy:    hwio.AddressPad,
	})
	tbl.AddOutput(hwio.Output{
		Name:      "prof_data.mif",
		Registers: []uint64{8},
		DataWidth: 64,
		Policy:    hwio.AddressPad,
	})

	res, err := tbl.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("Resolve returned %d outputs, want 2", len(res))
	}

	if res[0].Name != "cfr_data.mif" || res[0].Width != 40 || res[0].Depth != 3 {
		t.Errorf("cfr_data: got name=%s width=%d depth=%d", res[0].Name, res[0].Width, res[0].Depth)
	}
	want := []string{"a0002000", "100000000", "200008000"}
	if diff := cmp.Diff(want, hexWords(res[0])); diff != "" {
		t.Errorf("cfr_data words mismatch (-want +got):\n%s", diff)
	}

	if res[1].Width != 72 || res[1].Depth != 1 {
		t.Errorf("prof_data: got width=%d depth=%d", res[1].Width, res[1].Depth)
	}
	want = []string{"8000032ffc0000003"}
	if diff := cmp.Diff(want, hexWords(res[1])); diff != "" {
		t.Errorf("prof_data words mismatch (-want +got):\n%s", diff)
	}
}

func TestTableResolveOrder(t *testing.T) {
	tbl := newTestTable(t)
	tbl.AddOutput(hwio.Output{Name: "rev", Registers: []uint64{2, 0}, DataWidth: 32, Policy: hwio.ExactWidth, AddrBits: 40})

	res, err := tbl.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if res[0].Width != 72 {
		t.Errorf("width = %d, want 72", res[0].Width)
	}
	want := []string{"200008000", "a0002000"}
	if diff := cmp.Diff(want, hexWords(res[0])); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
}

func TestTableUnknownRegister(t *testing.T) {
	tbl := newTestTable(t)
	tbl.AddOutput(hwio.Output{Name: "bad.mif", Registers: []uint64{0, 5}, DataWidth: 32})

	_, err := tbl.Resolve()
	if !errors.Is(err, hwio.ErrUnknownRegister) {
		t.Fatalf("Resolve error = %v, want %v", err, hwio.ErrUnknownRegister)
	}
}

func TestTableRegisterTooWide(t *testing.T) {
	tbl := newTestTable(t)
	tbl.AddOutput(hwio.Output{Name: "narrow.mif", Registers: []uint64{8}, DataWidth: 32})

	_, err := tbl.Resolve()
	if !errors.Is(err, hwio.ErrFieldOutOfRange) {
		t.Fatalf("Resolve error = %v, want %v", err, hwio.ErrFieldOutOfRange)
	}
}

func TestTableDuplicateRegister(t *testing.T) {
	tbl := newTestTable(t)
	if err := tbl.MapRegister(&hwio.Register{Name: "again", Addr: 1}); err == nil {
		t.Fatal("MapRegister should fail on an already mapped address")
	}
}

func TestOutputWidths(t *testing.T) {
	tests := []struct {
		out  hwio.Output
		want int
	}{
		{hwio.Output{DataWidth: 32, Policy: hwio.AddressPad}, 40},
		{hwio.Output{DataWidth: 64, Policy: hwio.AddressPad}, 72},
		{hwio.Output{DataWidth: 32, Policy: hwio.ExactWidth, AddrBits: 8}, 40},
		{hwio.Output{DataWidth: 24, Policy: hwio.ExactWidth, AddrBits: 8}, 32},
	}
	for _, tt := range tests {
		if got := tt.out.DeclaredWidth(); got != tt.want {
			t.Errorf("%s policy, data width %d: DeclaredWidth() = %d, want %d", tt.out.Policy, tt.out.DataWidth, got, tt.want)
		}
	}
}
