package mif

import (
	"io"

	"github.com/go-faster/jx"
)

// Manifest records the images written during a run, and encodes them as JSON.
type Manifest struct {
	entries []manifestEntry
}

type manifestEntry struct {
	path string
	img  *Image
}

// Add records that img has been written to path.
func (m *Manifest) Add(path string, img *Image) {
	m.entries = append(m.entries, manifestEntry{path: path, img: img})
}

func (m *Manifest) Len() int { return len(m.entries) }

// WriteTo writes the JSON manifest to w.
//
// Implements io.WriterTo.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	var e jx.Encoder
	e.SetIdent(2)

	e.ObjStart()
	e.FieldStart("images")
	e.ArrStart()
	for _, ent := range m.entries {
		img := ent.img
		e.ObjStart()
		e.FieldStart("name")
		e.Str(img.Name)
		e.FieldStart("path")
		e.Str(ent.path)
		e.FieldStart("width")
		e.Int(img.Width)
		e.FieldStart("depth")
		e.Int(img.Depth)
		e.FieldStart("style")
		e.Str(img.Style.Name)
		e.FieldStart("words")
		e.ArrStart()
		for i := range img.Words {
			e.Str(img.Word(i))
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()

	n, err := w.Write(append(e.Bytes(), '\n'))
	return int64(n), err
}
