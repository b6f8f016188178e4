// package gen builds the ROM images of every target: the waveform RAM, the
// registers of a register document, and the built-in DDS registers.
//
// Generate has no side effect: it neither writes files nor keeps state
// between calls, so it's safe to call concurrently.
package gen

import (
	"maps"
	"slices"
	"strings"

	"github.com/go-faster/errors"

	"mifgen/hw/dds"
	"mifgen/hw/hwio"
	"mifgen/log"
	"mifgen/mif"
	"mifgen/regdoc"
	"mifgen/settings"
	"mifgen/wave"
)

// A Target is a set of images to generate.
type Target uint8

const (
	Waveform  Target = 1 << iota // amplitude RAM
	Registers                    // register document
	Builtin                      // built-in DDS registers

	AllTargets = Waveform | Registers | Builtin
)

var targetNames = []struct {
	t    Target
	name string
}{
	{Waveform, "wave"},
	{Registers, "registers"},
	{Builtin, "builtin"},
}

func (t Target) String() string {
	var names []string
	for _, tn := range targetNames {
		if t&tn.t != 0 {
			names = append(names, tn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Data width of register document words, before address prefixing.
const ControlFunctionWidth = 32

type Config struct {
	Targets  Target
	Document *regdoc.Document // required by the Registers target
	Settings settings.Config

	// Style, if not empty, replaces the style of every image.
	Style string
}

// Images maps image names to their content.
type Images map[string]*mif.Image

// Names returns the image names, sorted.
func (imgs Images) Names() []string {
	return slices.Sorted(maps.Keys(imgs))
}

func (imgs Images) add(img *mif.Image) error {
	if _, ok := imgs[img.Name]; ok {
		return errors.Errorf("duplicate image name %q", img.Name)
	}
	imgs[img.Name] = img
	return nil
}

// Generate builds the images of all the targets of cfg.
func Generate(cfg Config) (Images, error) {
	if cfg.Targets&AllTargets == 0 {
		return nil, errors.New("no target")
	}
	if cfg.Targets&Registers != 0 && cfg.Document == nil {
		return nil, errors.New("registers target requires a register document")
	}

	g := generator{cfg: cfg, imgs: make(Images)}
	steps := []struct {
		t  Target
		fn func() error
	}{
		{Waveform, g.waveform},
		{Registers, g.registers},
		{Builtin, g.builtin},
	}
	for _, s := range steps {
		if cfg.Targets&s.t == 0 {
			continue
		}
		if err := s.fn(); err != nil {
			return nil, errors.Wrapf(err, "target %s", s.t)
		}
	}

	log.ModGen.InfoZ("generated images").
		Stringer("targets", cfg.Targets).
		Int("count", len(g.imgs)).
		End()
	return g.imgs, nil
}

type generator struct {
	cfg  Config
	imgs Images
}

func (g *generator) style(o settings.OutputConfig) (mif.Style, error) {
	if g.cfg.Style != "" {
		o.Style = g.cfg.Style
	}
	return o.MifStyle()
}

func (g *generator) waveform() error {
	wc := g.cfg.Settings.Waveform
	words, err := wave.Generate(wc.Params)
	if err != nil {
		return err
	}

	img := mif.FromUint64(wc.Output.Name, wc.Width, words)
	if wc.Output.Depth != 0 {
		img.Depth = wc.Output.Depth
	}
	if img.Style, err = g.style(wc.Output); err != nil {
		return err
	}
	return g.addImage(img)
}

func (g *generator) registers() error {
	doc := g.cfg.Document
	rc := g.cfg.Settings.Registers

	cfs := hwio.NewTable("control_functions")
	cfOut := hwio.Output{DataWidth: ControlFunctionWidth}
	for _, cf := range doc.ControlFunctions {
		reg, err := cf.Register(ControlFunctionWidth)
		if err != nil {
			return err
		}
		if err := cfs.MapRegister(reg); err != nil {
			return err
		}
		cfOut.Registers = append(cfOut.Registers, reg.Addr)
	}
	if err := g.resolve(cfs, rc.ControlFunctions, cfOut); err != nil {
		return err
	}

	profs := hwio.NewTable("profiles")
	profOut := hwio.Output{DataWidth: regdoc.ProfileWidth}
	for _, p := range doc.Profiles {
		reg, err := p.Register()
		if err != nil {
			return err
		}
		if err := profs.MapRegister(reg); err != nil {
			return err
		}
		profOut.Registers = append(profOut.Registers, reg.Addr)
	}
	return g.resolve(profs, rc.Profiles, profOut)
}

func (g *generator) builtin() error {
	bc := g.cfg.Settings.Builtin
	defs := dds.Outputs()
	confs := []settings.OutputConfig{bc.CFR, bc.Profile}

	tbl, err := dds.NewTable(bc.Overrides)
	if err != nil {
		return err
	}
	for i, o := range defs {
		if err := g.resolve(tbl, confs[i], o); err != nil {
			return err
		}
	}
	return nil
}

// resolve packs output o of tbl, once configured by oc.
func (g *generator) resolve(tbl *hwio.Table, oc settings.OutputConfig, o hwio.Output) error {
	o, err := oc.Apply(o)
	if err != nil {
		return err
	}
	res, err := tbl.ResolveOutput(o)
	if err != nil {
		return err
	}

	img := &mif.Image{
		Name:  res.Name,
		Width: res.Width,
		Depth: res.Depth,
		Words: res.Words,
	}
	if img.Style, err = g.style(oc); err != nil {
		return err
	}
	return g.addImage(img)
}

func (g *generator) addImage(img *mif.Image) error {
	if !img.Empty() {
		if err := img.Validate(); err != nil {
			return err
		}
	}
	log.ModGen.DebugZ("image ready").
		String("name", img.Name).
		Int("width", img.Width).
		Int("depth", img.Depth).
		String("style", img.Style.Name).
		End()
	return g.imgs.add(img)
}
