package mif

import (
	"slices"

	"github.com/go-faster/errors"
)

// Style controls the textual conventions of a memory initialization file.
// The header and footer are the same for all styles, only the content rows
// and the header spacing change.
type Style struct {
	Name string

	Indent     string // written before each row
	Sep        string // between the row index and the word
	Term       string // written after each word
	AddrDigits int    // minimum number of hex digits of the row index
	Upper      bool   // uppercase hex digits in words
	Blank      bool   // blank lines around the radix declarations
}

var (
	// Plain is the default style: "<addr> : <word>" rows, no terminator.
	Plain = Style{Name: "plain", Sep: " : "}

	// Quartus follows the layout written by the Quartus memory editor:
	// tab-indented, semicolon terminated rows, blank separator lines.
	Quartus = Style{Name: "quartus", Indent: "\t", Sep: ": ", Term: ";", Blank: true}

	// Legacy uses uppercase hex words.
	Legacy = Style{Name: "legacy", Sep: " : ", Upper: true}
)

var styles = []Style{Plain, Quartus, Legacy}

// StyleByName returns the predefined style with the given name.
func StyleByName(name string) (Style, error) {
	for _, s := range styles {
		if s.Name == name {
			return s, nil
		}
	}
	return Style{}, errors.Errorf("unknown style %q (valid styles: %v)", name, StyleNames())
}

// StyleNames returns the names of the predefined styles.
func StyleNames() []string {
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	slices.Sort(names)
	return names
}

// WithAddrDigits returns a copy of s padding row indices to n hex digits.
func (s Style) WithAddrDigits(n int) Style {
	s.AddrDigits = n
	return s
}
