package mif

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mifgen/hw/hwio"
)

func words(vals ...uint64) []*big.Int {
	w := make([]*big.Int, len(vals))
	for i, v := range vals {
		w[i] = new(big.Int).SetUint64(v)
	}
	return w
}

func TestImageStyles(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{
			Plain,
			`width=40;
depth=3;
address_radix=hex;
data_radix=hex;
content begin
0 : 00a0002000
1 : 0100000000
2 : 0200008000
end;
`,
		},
		{
			Quartus,
			`width=40;
depth=3;

address_radix=hex;
data_radix=hex;

content begin
	0: 00a0002000;
	1: 0100000000;
	2: 0200008000;
end;
`,
		},
		{
			Legacy.WithAddrDigits(2),
			`width=40;
depth=3;
address_radix=hex;
data_radix=hex;
content begin
00 : 00A0002000
01 : 0100000000
02 : 0200008000
end;
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.style.Name, func(t *testing.T) {
			img := &Image{
				Name:  "cfr_data.mif",
				Width: 40,
				Depth: 3,
				Words: words(0xA0002000, 0x100000000, 0x200008000),
				Style: tt.style,
			}
			got, err := img.MarshalText()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("image mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImageAddressPrefixedRow(t *testing.T) {
	tests := []struct {
		width  int
		style  Style
		digits int
		row    string
	}{
		// 32 address bits, 32 data bits.
		{64, Legacy, 16, "0 : 00000000A0002000"},
		// 32 data bits, padded to 72 bits.
		{72, Plain, 18, "0 : 0000000000a0002000"},
	}
	for _, tt := range tests {
		img := &Image{
			Width: tt.width,
			Depth: 1,
			Words: words(0xA0002000),
			Style: tt.style,
		}
		if img.Digits() != tt.digits {
			t.Fatalf("width %d: Digits() = %d, want %d", tt.width, img.Digits(), tt.digits)
		}

		out, err := img.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(string(out), "\n")
		if got := lines[5]; got != tt.row {
			t.Errorf("width %d: row 0 = %q, want %q", tt.width, got, tt.row)
		}
	}
}

func TestImageOddWidth(t *testing.T) {
	img := &Image{Width: 10, Depth: 2, Words: words(0x3ff, 1), Style: Plain}
	out, err := img.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "0 : 3ff\n1 : 001\n") {
		t.Errorf("unexpected rows:\n%s", out)
	}
}

func TestImageRowIndexHex(t *testing.T) {
	vals := make([]uint64, 1024)
	vals[512] = 0xFFFC0000
	img := FromUint64("ram_data.mif", 32, vals)

	out, err := img.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range []string{"\n0 : 00000000\n", "\n200 : fffc0000\n", "\n3ff : 00000000\nend;\n"} {
		if !bytes.Contains(out, []byte(row)) {
			t.Errorf("output doesn't contain %q", row)
		}
	}

	img.Style = Quartus.WithAddrDigits(3)
	out, err = img.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte("\t000: 00000000;\n")) || !bytes.Contains(out, []byte("\t200: fffc0000;\n")) {
		t.Errorf("quartus rows not found")
	}
}

func TestImageEmpty(t *testing.T) {
	for _, img := range []*Image{
		{Width: 32, Depth: 0, Words: words(1, 2)},
		{Width: 32, Depth: 4},
		{},
	} {
		var buf bytes.Buffer
		n, err := img.WriteTo(&buf)
		if err != nil || n != 0 || buf.Len() != 0 {
			t.Errorf("WriteTo(empty) = %d, %v, wrote %q", n, err, buf.String())
		}
	}
}

func TestImageErrors(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
		want error
	}{
		{"short", &Image{Width: 32, Depth: 3, Words: words(1, 2)}, ErrLengthMismatch},
		{"long", &Image{Width: 32, Depth: 1, Words: words(1, 2)}, ErrLengthMismatch},
		{"overflow", &Image{Width: 32, Depth: 2, Words: words(1, 1<<32)}, hwio.ErrValueOverflow},
		{"negative", &Image{Width: 32, Depth: 1, Words: []*big.Int{big.NewInt(-1)}}, hwio.ErrValueOverflow},
		{"zero width", &Image{Width: 0, Depth: 1, Words: words(0)}, hwio.ErrInvalidWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := tt.img.WriteTo(&buf)
			if !errors.Is(err, tt.want) {
				t.Fatalf("WriteTo error = %v, want %v", err, tt.want)
			}
			if buf.Len() != 0 {
				t.Errorf("partial output on error: %q", buf.String())
			}
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, words(0, 0xFFFC0000), 32, 2); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "content begin\n0 : 00000000\n1 : fffc0000\nend;\n") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	if err := Write(&buf, words(0), 32, 2); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Write error = %v, want %v", err, ErrLengthMismatch)
	}
}

func TestStyleByName(t *testing.T) {
	for _, name := range StyleNames() {
		s, err := StyleByName(name)
		if err != nil {
			t.Fatal(err)
		}
		if s.Name != name {
			t.Errorf("StyleByName(%q) = %q", name, s.Name)
		}
	}
	if _, err := StyleByName("verilog"); err == nil {
		t.Errorf("StyleByName should fail on unknown style")
	}
}
