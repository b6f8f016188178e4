package hwio

import (
	"math/rand/v2"
	"testing"
)

const testBits = 256

func TestBitset(t *testing.T) {
	var b Bitset
	for i := range testBits {
		if b.Test(uint(i)) {
			t.Fatalf("Bit %d is set", i)
		}
	}

	for i := range testBits {
		b.Set(uint(i))
		if !b.Test(uint(i)) {
			t.Fatalf("Bit %d is not set", i)
		}
	}

	b.Reset()
	for i := range testBits {
		if b.Test(uint(i)) {
			t.Fatalf("Bit %d is set", i)
		}
	}
}

func TestBitsetRanges(t *testing.T) {
	var b Bitset

	for range 2000 {
		start := rand.UintN(testBits)
		end := rand.UintN(testBits)
		if start > end {
			start, end = end, start
		}
		if start == end {
			end++
		}

		b.Reset()
		b.SetRange(start, end)
		for i := range testBits + wordSize {
			ui := uint(i)
			if ui >= start && ui < end {
				if !b.Test(ui) {
					t.Fatalf("SetRange(%d, %d) but bit %d is not set", start, end, i)
				}
			} else {
				if b.Test(ui) {
					t.Fatalf("SetRange(%d, %d) but bit %d is set", start, end, i)
				}
			}
		}

		// Check a random range against the one we set.
		lo := rand.UintN(testBits)
		hi := lo + 1 + rand.UintN(testBits)
		want := lo < end && start < hi
		if got := b.TestRange(lo, hi); got != want {
			t.Fatalf("SetRange(%d, %d); TestRange(%d, %d) = %t, want %t", start, end, lo, hi, got, want)
		}
	}
}

func TestBitsetTestRangeBeyondEnd(t *testing.T) {
	var b Bitset
	b.SetRange(0, 10)
	if b.TestRange(500, 1000) {
		t.Errorf("TestRange past the last word should be false")
	}
	if !b.TestRange(9, 1000) {
		t.Errorf("TestRange(9, 1000) should include bit 9")
	}
}
