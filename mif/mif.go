// package mif writes memory initialization files (.mif), the text format used
// by FPGA toolchains to specify the initial content of a memory block.
package mif

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/go-faster/errors"

	"mifgen/hw/hwio"
)

var ErrLengthMismatch = errors.New("length mismatch")

// An Image is the content of a ROM: Depth words of Width bits each.
type Image struct {
	Name  string
	Width int
	Depth int
	Words []*big.Int
	Style Style
}

// FromUint64 creates an image out of words, with the depth set to the number
// of words.
func FromUint64(name string, width int, words []uint64) *Image {
	img := &Image{
		Name:  name,
		Width: width,
		Depth: len(words),
		Words: make([]*big.Int, len(words)),
		Style: Plain,
	}
	for i, w := range words {
		img.Words[i] = new(big.Int).SetUint64(w)
	}
	return img
}

// Empty reports whether there's nothing to write.
func (img *Image) Empty() bool {
	return img.Depth == 0 || len(img.Words) == 0
}

// Digits returns the number of hex digits of each word.
func (img *Image) Digits() int {
	return (img.Width + 3) / 4
}

// Word returns the formatted word at row i.
func (img *Image) Word(i int) string {
	s := img.Words[i].Text(16)
	if img.Style.Upper {
		s = strings.ToUpper(s)
	}
	if pad := img.Digits() - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}

// Validate checks that the image is consistent: len(Words) == Depth, and every
// word is non-negative and fits in Width bits.
func (img *Image) Validate() error {
	if img.Width <= 0 {
		return errors.Wrapf(hwio.ErrInvalidWidth, "image %s: width %d", img.Name, img.Width)
	}
	if len(img.Words) != img.Depth {
		return errors.Wrapf(ErrLengthMismatch, "image %s: %d words, depth %d", img.Name, len(img.Words), img.Depth)
	}
	for i, w := range img.Words {
		if w.Sign() < 0 || w.BitLen() > img.Width {
			return errors.Wrapf(hwio.ErrValueOverflow, "image %s: row %#x: word %#x does not fit in %d bits", img.Name, i, w, img.Width)
		}
	}
	return nil
}

// WriteTo writes the image in mif format to w. Nothing is written if the
// image is empty, and nothing is written either if the image is not valid.
//
// Implements io.WriterTo.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	if img.Empty() {
		return 0, nil
	}
	if err := img.Validate(); err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	img.encode(&buf)
	return buf.WriteTo(w)
}

// MarshalText returns the image in mif format. An empty image gives an empty
// slice.
func (img *Image) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := img.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (img *Image) encode(w io.Writer) {
	bw := bufio.NewWriter(w)
	st := img.Style

	fmt.Fprintf(bw, "width=%d;\n", img.Width)
	fmt.Fprintf(bw, "depth=%d;\n", img.Depth)
	if st.Blank {
		bw.WriteByte('\n')
	}
	bw.WriteString("address_radix=hex;\n")
	bw.WriteString("data_radix=hex;\n")
	if st.Blank {
		bw.WriteByte('\n')
	}
	bw.WriteString("content begin\n")

	for i := range img.Words {
		fmt.Fprintf(bw, "%s%0*x%s%s%s\n", st.Indent, st.AddrDigits, i, st.Sep, img.Word(i), st.Term)
	}

	bw.WriteString("end;\n")
	bw.Flush()
}

// Write is a shorthand to write words as a plain style image of the given
// width and depth.
func Write(w io.Writer, words []*big.Int, width, depth int) error {
	img := &Image{Width: width, Depth: depth, Words: words, Style: Plain}
	_, err := img.WriteTo(w)
	return err
}
