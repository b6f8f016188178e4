// package wave generates the amplitude table loaded into the DDS RAM: a
// raised cosine envelope quantized to an unsigned integer and aligned to the
// high bits of a ROM word.
package wave

import (
	"math"

	"github.com/go-faster/errors"

	"mifgen/log"
)

// Params describes the quantization of the envelope.
type Params struct {
	Samples int `toml:"samples"` // number of samples over one period
	Bits    int `toml:"bits"`    // resolution of a sample
	Shift   int `toml:"shift"`   // left shift applied to each sample
	Width   int `toml:"width"`   // ROM word width
}

// Default are the parameters of the DDS amplitude RAM: 1024 14-bit samples,
// in the upper bits of a 32-bit word.
var Default = Params{
	Samples: 1024,
	Bits:    14,
	Shift:   18,
	Width:   32,
}

func (p Params) Validate() error {
	switch {
	case p.Samples <= 0:
		return errors.Errorf("invalid number of samples: %d", p.Samples)
	case p.Bits <= 0 || p.Bits > 63:
		return errors.Errorf("invalid sample resolution: %d bits", p.Bits)
	case p.Shift < 0:
		return errors.Errorf("invalid sample shift: %d", p.Shift)
	case p.Width <= 0 || p.Width > 64:
		return errors.Errorf("invalid word width: %d", p.Width)
	case p.Bits+p.Shift > p.Width:
		return errors.Errorf("%d-bit samples shifted by %d don't fit in %d-bit words", p.Bits, p.Shift, p.Width)
	}
	return nil
}

// Sample returns the quantized, unshifted, value of sample i. The envelope
// goes from 0 at i=0 up to its maximum at half period, and back.
func (p Params) Sample(i int) uint64 {
	x := float64(i) * (2 * math.Pi / float64(p.Samples))
	y := 0.5 + 0.5*-math.Cos(x)
	top := float64(uint64(1)<<p.Bits - 1)
	return uint64(y * top)
}

// Generate returns all the samples, shifted in place in their ROM word.
func Generate(p Params) ([]uint64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	words := make([]uint64, p.Samples)
	for i := range words {
		words[i] = p.Sample(i) << p.Shift
	}

	log.ModWave.DebugZ("generated waveform").
		Int("samples", p.Samples).
		Int("bits", p.Bits).
		Int("shift", p.Shift).
		Hex("peak", words[p.Samples/2]).
		End()
	return words, nil
}
