package hwio

import "fmt"

const wordSize = 64 // using 64-bit words

// Bitset is a growable set of bit indices. Zero value is an empty set (all
// bits cleared).
type Bitset struct {
	words []uint64
}

func (b *Bitset) grow(nbits uint) {
	n := int((nbits + wordSize - 1) / wordSize)
	if n > len(b.words) {
		b.words = append(b.words, make([]uint64, n-len(b.words))...)
	}
}

// Set sets the bit at index i.
func (b *Bitset) Set(i uint) {
	b.grow(i + 1)
	b.words[i/wordSize] |= 1 << (i % wordSize)
}

// Test returns true if the bit at index i is set.
func (b *Bitset) Test(i uint) bool {
	if i/wordSize >= uint(len(b.words)) {
		return false
	}
	return (b.words[i/wordSize] & (1 << (i % wordSize))) != 0
}

// rangeMasks calls fn for each word touched by the half-open interval
// [start, end), with the mask of the bits of that word in the interval.
func rangeMasks(start, end uint, fn func(word uint, mask uint64) bool) {
	if start >= end {
		panic(fmt.Sprintf("invalid range [%d, %d)", start, end))
	}
	startWord := start / wordSize
	endWord := (end - 1) / wordSize
	startBit := start % wordSize
	endBit := (end - 1) % wordSize

	if startWord == endWord {
		fn(startWord, ((uint64(1)<<(endBit-startBit+1))-1)<<startBit)
		return
	}

	// First word.
	if !fn(startWord, ^uint64(0)<<startBit) {
		return
	}

	// Middle full words.
	for i := startWord + 1; i < endWord; i++ {
		if !fn(i, ^uint64(0)) {
			return
		}
	}

	// Last word.
	fn(endWord, (uint64(1)<<(endBit+1))-1)
}

// SetRange sets all bits in the half-open interval [start, end).
// It panics if start >= end.
func (b *Bitset) SetRange(start, end uint) {
	b.grow(end)
	rangeMasks(start, end, func(w uint, mask uint64) bool {
		b.words[w] |= mask
		return true
	})
}

// TestRange returns true if any bit in the half-open interval [start, end)
// is set. It panics if start >= end.
func (b *Bitset) TestRange(start, end uint) bool {
	found := false
	rangeMasks(start, end, func(w uint, mask uint64) bool {
		if w < uint(len(b.words)) && b.words[w]&mask != 0 {
			found = true
		}
		return !found
	})
	return found
}

// Reset clears all bits in the Bitset.
func (b *Bitset) Reset() {
	for i := range b.words {
		b.words[i] = 0
	}
}
