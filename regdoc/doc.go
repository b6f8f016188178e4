// package regdoc reads register documents: the description of the DDS control
// function registers and RAM profiles, as YAML or TOML.
package regdoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"mifgen/hw/hwio"
	"mifgen/log"
)

type Document struct {
	ControlFunctions []ControlFunction `toml:"control_functions" yaml:"control_functions"`
	Profiles         []Profile         `toml:"profiles" yaml:"profiles"`
}

// A ControlFunction is a register made of named options.
type ControlFunction struct {
	Name        string            `toml:"name" yaml:"name"`
	Description string            `toml:"description" yaml:"description"`
	Address     uint64            `toml:"address" yaml:"address"`
	Options     map[string]Option `toml:"options" yaml:"options"`
}

// An Option is a bitfield of a control function. Its value is Value if set,
// Default otherwise.
type Option struct {
	Description string `toml:"description" yaml:"description"`
	Bits        Bits   `toml:"bits" yaml:"bits"`
	Width       int    `toml:"width" yaml:"width"` // only for single bit positions
	Value       *Value `toml:"value" yaml:"value"`
	Default     *Value `toml:"default" yaml:"default"`
}

// Bitfield normalizes the option into a bitfield labeled name.
func (o Option) Bitfield(name string) (hwio.Bitfield, error) {
	if !o.Bits.IsSet() {
		return hwio.Bitfield{}, errors.Wrapf(ErrInvalidOption, "option %q: missing bits", name)
	}

	val := o.Value
	if val == nil {
		val = o.Default
	}
	if val == nil {
		return hwio.Bitfield{}, errors.Wrapf(ErrInvalidOption, "option %q: no value nor default", name)
	}
	v, err := val.Uint()
	if err != nil {
		return hwio.Bitfield{}, errors.Wrapf(err, "option %q", name)
	}

	width := o.Bits.RangeWidth()
	switch {
	case o.Width != 0 && o.Bits.Range && o.Width != width:
		return hwio.Bitfield{}, errors.Wrapf(ErrInvalidOption, "option %q: width %d contradicts bits [%d, %d]", name, o.Width, o.Bits.Lo, o.Bits.Hi)
	case o.Width != 0:
		width = o.Width
	}

	return hwio.NewBitfield(name, width, o.Bits.Shift(), v)
}

// RegisterName returns the name of the control function, or a name derived
// from its address if it has none.
func (cf ControlFunction) RegisterName() string {
	if cf.Name != "" {
		return cf.Name
	}
	return fmt.Sprintf("CF%d", cf.Address)
}

// Register returns the register made of all options. Fields are sorted by
// option name.
func (cf ControlFunction) Register(width int) (*hwio.Register, error) {
	names := make([]string, 0, len(cf.Options))
	for name := range cf.Options {
		names = append(names, name)
	}
	slices.Sort(names)

	reg := &hwio.Register{
		Name:   cf.RegisterName(),
		Addr:   cf.Address,
		Width:  width,
		Fields: make([]hwio.Bitfield, 0, len(names)),
	}
	for _, name := range names {
		bf, err := cf.Options[name].Bitfield(name)
		if err != nil {
			return nil, errors.Wrapf(err, "control function %s", reg.Name)
		}
		reg.Fields = append(reg.Fields, bf)
	}
	return reg, nil
}

// A Profile is a RAM profile register.
type Profile struct {
	Address uint64 `toml:"address" yaml:"address"`
	Step    uint64 `toml:"step" yaml:"step"`
	End     uint64 `toml:"end" yaml:"end"`
	Start   uint64 `toml:"start" yaml:"start"`
	Mode    uint64 `toml:"mode" yaml:"mode"`
}

// Layout of the profile fields.
const (
	ProfileWidth = 64

	profStepShift, profStepWidth   = 40, 16
	profEndShift, profEndWidth     = 30, 10
	profStartShift, profStartWidth = 14, 10
	profModeShift, profModeWidth   = 0, 4
)

// Register returns the profile as a register.
func (p Profile) Register() (*hwio.Register, error) {
	reg := &hwio.Register{
		Name:  fmt.Sprintf("PROFILE%d", p.Address),
		Addr:  p.Address,
		Width: ProfileWidth,
	}

	defs := []struct {
		label        string
		width, shift int
		val          uint64
	}{
		{"step", profStepWidth, profStepShift, p.Step},
		{"end", profEndWidth, profEndShift, p.End},
		{"start", profStartWidth, profStartShift, p.Start},
		{"mode", profModeWidth, profModeShift, p.Mode},
	}
	for _, d := range defs {
		bf, err := hwio.NewBitfield(d.label, d.width, d.shift, d.val)
		if err != nil {
			return nil, errors.Wrapf(err, "profile %d", p.Address)
		}
		reg.Fields = append(reg.Fields, bf)
	}
	return reg, nil
}

// Load reads a register document, in YAML or TOML depending on the file
// extension.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc *Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		doc, err = DecodeYAML(f)
	case ".toml":
		doc, err = DecodeTOML(f)
	default:
		return nil, errors.Errorf("%s: unsupported document format %q (want .yaml, .yml or .toml)", path, ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	log.ModDoc.DebugZ("loaded register document").
		String("path", path).
		Int("control_functions", len(doc.ControlFunctions)).
		Int("profiles", len(doc.Profiles)).
		End()
	return doc, nil
}

// DecodeYAML decodes a YAML document. Unknown keys are reported as warnings,
// as DecodeTOML does.
func DecodeYAML(r io.Reader) (*Document, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := new(Document)
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	err = dec.Decode(doc)

	var terr *yaml.TypeError
	if errors.As(err, &terr) && onlyUnknownFields(terr) {
		for _, msg := range terr.Errors {
			log.ModDoc.WarnZ("unknown key in register document").
				String("error", msg).
				End()
		}
		doc = new(Document)
		err = yaml.Unmarshal(buf, doc)
	}
	if err != nil && err != io.EOF {
		return nil, err
	}
	return doc, nil
}

func onlyUnknownFields(terr *yaml.TypeError) bool {
	for _, msg := range terr.Errors {
		if !strings.Contains(msg, "not found in type") {
			return false
		}
	}
	return true
}

func DecodeTOML(r io.Reader) (*Document, error) {
	doc := new(Document)
	md, err := toml.NewDecoder(r).Decode(doc)
	if err != nil {
		return nil, err
	}
	for _, key := range md.Undecoded() {
		log.ModDoc.WarnZ("unknown key in register document").
			String("key", key.String()).
			End()
	}
	return doc, nil
}
