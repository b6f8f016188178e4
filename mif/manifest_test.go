package mif

import (
	"bytes"
	"testing"

	"github.com/go-faster/jx"
	"github.com/google/go-cmp/cmp"
)

func TestManifest(t *testing.T) {
	var m Manifest
	m.Add("out/cfr_data.mif", &Image{Name: "cfr_data.mif", Width: 40, Depth: 2, Words: words(0xA0002000, 0x100000000), Style: Legacy})
	m.Add("out/ram_data.mif", FromUint64("ram_data.mif", 32, []uint64{0, 0xFFFC0000}))

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	type entry struct {
		Name, Path, Style string
		Width, Depth      int
		Words             []string
	}
	var got []entry

	err := jx.DecodeBytes(buf.Bytes()).Obj(func(d *jx.Decoder, key string) error {
		if key != "images" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			var e entry
			err := d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "name":
					e.Name, err = d.Str()
				case "path":
					e.Path, err = d.Str()
				case "style":
					e.Style, err = d.Str()
				case "width":
					e.Width, err = d.Int()
				case "depth":
					e.Depth, err = d.Int()
				case "words":
					err = d.Arr(func(d *jx.Decoder) error {
						s, err := d.Str()
						e.Words = append(e.Words, s)
						return err
					})
				default:
					err = d.Skip()
				}
				return err
			})
			got = append(got, e)
			return err
		})
	})
	if err != nil {
		t.Fatalf("invalid manifest: %v\n%s", err, buf.String())
	}

	want := []entry{
		{Name: "cfr_data.mif", Path: "out/cfr_data.mif", Style: "legacy", Width: 40, Depth: 2, Words: []string{"00A0002000", "0100000000"}},
		{Name: "ram_data.mif", Path: "out/ram_data.mif", Style: "plain", Width: 32, Depth: 2, Words: []string{"00000000", "fffc0000"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}
