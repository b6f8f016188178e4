package wave

import "testing"

func TestGenerate(t *testing.T) {
	words, err := Generate(Default)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 1024 {
		t.Fatalf("got %d samples, want 1024", len(words))
	}

	tests := []struct {
		idx  int
		want uint64
	}{
		{0, 0x00000000},
		{512, 0xFFFC0000},
		{256, 8191 << 18}, // cos(pi/2) ~ 0, floored
	}
	for _, tt := range tests {
		if got := words[tt.idx]; got != tt.want {
			t.Errorf("words[%d] = %#08x, want %#08x", tt.idx, got, tt.want)
		}
	}

	for i, w := range words {
		if w&(1<<18-1) != 0 {
			t.Fatalf("words[%d] = %#x has low bits set", i, w)
		}
		if w>>32 != 0 {
			t.Fatalf("words[%d] = %#x doesn't fit in 32 bits", i, w)
		}
		// Symmetric around the half period.
		if i > 0 && i < 512 {
			d := int64(w>>18) - int64(words[1024-i]>>18)
			if d < -1 || d > 1 {
				t.Errorf("words[%d] = %#x, words[%d] = %#x: not symmetric", i, w, 1024-i, words[1024-i])
			}
		}
	}
}

func TestGenerateMonotonic(t *testing.T) {
	words, err := Generate(Default)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 512; i++ {
		if words[i] < words[i-1] {
			t.Fatalf("rising half not monotonic at %d: %#x < %#x", i, words[i], words[i-1])
		}
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"no samples", Params{Samples: 0, Bits: 14, Shift: 18, Width: 32}},
		{"no bits", Params{Samples: 8, Bits: 0, Shift: 18, Width: 32}},
		{"negative shift", Params{Samples: 8, Bits: 14, Shift: -1, Width: 32}},
		{"too wide", Params{Samples: 8, Bits: 14, Shift: 19, Width: 32}},
		{"huge word", Params{Samples: 8, Bits: 14, Shift: 0, Width: 72}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate(tt.p); err == nil {
				t.Errorf("Generate(%+v) should fail", tt.p)
			}
		})
	}
}
