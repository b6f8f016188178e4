// package settings holds the mifgen configuration, read from a TOML file.
package settings

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/kirsle/configdir"

	"mifgen/hw/dds"
	"mifgen/hw/hwio"
	"mifgen/log"
	"mifgen/mif"
	"mifgen/wave"
)

// What to do when no output path is given to the wave command.
const (
	MissingPathDefault = "default" // write DefaultPath
	MissingPathUsage   = "usage"   // print usage and exit
)

type Config struct {
	OutDir string `toml:"out_dir"`

	CLI       CLIConfig       `toml:"cli"`
	Waveform  WaveformConfig  `toml:"waveform"`
	Registers RegistersConfig `toml:"registers"`
	Builtin   BuiltinConfig   `toml:"builtin"`
}

type CLIConfig struct {
	MissingPath string `toml:"missing_path"`
	DefaultPath string `toml:"default_path"`
}

type WaveformConfig struct {
	wave.Params
	Output OutputConfig `toml:"output"`
}

// OutputConfig configures a single output image.
type OutputConfig struct {
	Name       string `toml:"name"`
	Style      string `toml:"style"`
	AddrDigits int    `toml:"addr_digits"`
	Depth      int    `toml:"depth"`     // 0: number of registers
	Policy     string `toml:"policy"`    // "pad" or "exact"
	AddrBits   int    `toml:"addr_bits"` // for "exact" policy
}

// RegistersConfig configures the outputs built from a register document.
type RegistersConfig struct {
	ControlFunctions OutputConfig `toml:"control_functions"`
	Profiles         OutputConfig `toml:"profiles"`
}

// BuiltinConfig configures the outputs built from the built-in registers.
type BuiltinConfig struct {
	CFR       OutputConfig  `toml:"cfr"`
	Profile   OutputConfig  `toml:"profile"`
	Overrides dds.Overrides `toml:"overrides"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		OutDir: ".",
		CLI: CLIConfig{
			MissingPath: MissingPathDefault,
			DefaultPath: filepath.Join("..", "data", "ram_data.mif"),
		},
		Waveform: WaveformConfig{
			Params: wave.Default,
			Output: OutputConfig{Name: "ram_data.mif", Style: mif.Plain.Name},
		},
		Registers: RegistersConfig{
			ControlFunctions: OutputConfig{Name: "control_function_data.mif", Style: mif.Plain.Name, Policy: hwio.AddressPad.String()},
			Profiles:         OutputConfig{Name: "profile_data.mif", Style: mif.Plain.Name, Policy: hwio.AddressPad.String()},
		},
		Builtin: BuiltinConfig{
			CFR:     OutputConfig{Name: dds.CFRData, Style: mif.Plain.Name, Policy: hwio.AddressPad.String()},
			Profile: OutputConfig{Name: dds.ProfData, Style: mif.Plain.Name, Policy: hwio.AddressPad.String()},
		},
	}
}

const fileName = "config.toml"

// Dir returns the mifgen directory in the user configuration directory.
func Dir() string {
	return configdir.LocalConfig("mifgen")
}

// Path returns the path of the configuration file.
func Path() string {
	return filepath.Join(Dir(), fileName)
}

// Load reads the configuration at path. Settings not present in the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "settings %s", path)
	}
	for _, key := range md.Undecoded() {
		log.ModCLI.WarnZ("unknown settings key").
			String("path", path).
			String("key", key.String()).
			End()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "settings %s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration from the mifgen configuration
// directory, or provide a default one if there's none.
func LoadOrDefault() (Config, error) {
	cfg, err := Load(Path())
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes cfg into the mifgen configuration directory and returns the
// path of the written file.
func Save(cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if err := configdir.MakePath(Dir()); err != nil {
		return "", errors.Wrap(err, "settings directory")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return "", err
	}
	path := Path()
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks all enumerated settings.
func (cfg Config) Validate() error {
	switch cfg.CLI.MissingPath {
	case MissingPathDefault, MissingPathUsage:
	default:
		return errors.Errorf("cli.missing_path: invalid value %q (want %q or %q)", cfg.CLI.MissingPath, MissingPathDefault, MissingPathUsage)
	}

	if err := cfg.Waveform.Validate(); err != nil {
		return errors.Wrap(err, "waveform")
	}

	outputs := []struct {
		key string
		out OutputConfig
	}{
		{"waveform.output", cfg.Waveform.Output},
		{"registers.control_functions", cfg.Registers.ControlFunctions},
		{"registers.profiles", cfg.Registers.Profiles},
		{"builtin.cfr", cfg.Builtin.CFR},
		{"builtin.profile", cfg.Builtin.Profile},
	}
	for _, o := range outputs {
		if o.out.Name == "" {
			return errors.Errorf("%s: missing name", o.key)
		}
		if _, err := o.out.MifStyle(); err != nil {
			return errors.Wrap(err, o.key)
		}
		if _, err := o.out.WidthPolicy(); err != nil {
			return errors.Wrap(err, o.key)
		}
	}
	return nil
}

// MifStyle returns the style of the output image.
func (o OutputConfig) MifStyle() (mif.Style, error) {
	name := o.Style
	if name == "" {
		name = mif.Plain.Name
	}
	st, err := mif.StyleByName(name)
	if err != nil {
		return mif.Style{}, err
	}
	if o.AddrDigits < 0 {
		return mif.Style{}, errors.Errorf("invalid addr_digits: %d", o.AddrDigits)
	}
	if o.AddrDigits != 0 {
		st = st.WithAddrDigits(o.AddrDigits)
	}
	return st, nil
}

// WidthPolicy returns the declared width policy of the output.
func (o OutputConfig) WidthPolicy() (hwio.WidthPolicy, error) {
	switch o.Policy {
	case "", hwio.AddressPad.String():
		return hwio.AddressPad, nil
	case hwio.ExactWidth.String():
		if o.AddrBits <= 0 {
			return 0, errors.Errorf("policy %q requires a positive addr_bits", o.Policy)
		}
		return hwio.ExactWidth, nil
	}
	return 0, errors.Errorf("invalid policy %q (want %q or %q)", o.Policy, hwio.AddressPad, hwio.ExactWidth)
}

// Apply sets name, policy and depth of o onto out.
func (o OutputConfig) Apply(out hwio.Output) (hwio.Output, error) {
	p, err := o.WidthPolicy()
	if err != nil {
		return hwio.Output{}, errors.Wrapf(err, "output %s", o.Name)
	}
	out.Name = o.Name
	out.Policy = p
	out.AddrBits = o.AddrBits
	out.Depth = o.Depth
	return out, nil
}
