package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/go-faster/errors"

	"mifgen/log"
	"mifgen/mif"
)

type mode byte

const (
	waveMode      mode = iota // Write the waveform RAM image
	registersMode             // Write images of a register document
	builtinMode               // Write images of the built-in registers
	allMode                   // Write every image
	settingsMode              // Print the effective settings
	versionMode               // Show mifgen version
)

type (
	CLI struct {
		Wave      Wave      `cmd:"" help:"Write the waveform RAM image. (default command)" default:"withargs"`
		Registers Registers `cmd:"" help:"Write control function and profile images from a register document."`
		Builtin   Builtin   `cmd:"" help:"Write the images of the built-in DDS registers."`
		All       All       `cmd:"" help:"Write every image into a directory."`
		Settings  Settings  `cmd:"" help:"Print the effective settings, in TOML."`
		Version   Version   `cmd:"" help:"Show mifgen version."`

		Config   string     `name:"config" help:"${config_help}" type:"existingfile" placeholder:"FILE"`
		Log      logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Manifest *outfile   `name:"manifest" help:"${manifest_help}" placeholder:"FILE|stdout|stderr"`
		Style    string     `name:"style" help:"${style_help}" placeholder:"NAME"`

		mode  mode
		usage func()
	}

	Wave struct {
		Path string `arg:"" optional:"" name:"FILE" help:"${wave_path_help}" type:"path"`
	}

	Registers struct {
		Doc    string `name:"doc" help:"${doc_help}" required:"" type:"existingfile" placeholder:"FILE"`
		OutDir string `name:"out-dir" help:"${outdir_help}" type:"path" placeholder:"DIR"`
	}

	Builtin struct {
		OutDir string `name:"out-dir" help:"${outdir_help}" type:"path" placeholder:"DIR"`
	}

	All struct {
		Doc    string `name:"doc" help:"${doc_help}" required:"" type:"existingfile" placeholder:"FILE"`
		OutDir string `name:"out-dir" help:"${outdir_help}" required:"" type:"path" placeholder:"DIR"`
	}

	Settings struct {
		Save bool `name:"save" help:"Also write them into the user configuration directory."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help":    "Settings file. (default: mifgen/config.toml in the user configuration directory)",
	"log_help":       "Enable logging for specified modules.",
	"manifest_help":  "Write a JSON summary of the written images.",
	"style_help":     "Override the style of every image, one of: " + strings.Join(mif.StyleNames(), ", ") + ".",
	"wave_path_help": "Output file. If missing, the [cli] settings decide whether to write the default path or to show usage.",
	"doc_help":       "Register document, in YAML or TOML.",
	"outdir_help":    "Output directory. (default: out_dir setting)",
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("mifgen"),
		kong.Description("Memory initialization file generator for DDS waveform and register ROMs."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars,
	}
	return kong.New(cli, append(opts, options...)...)
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := newParser(&cfg)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	cfg.usage = func() { ctx.PrintUsage(false) }

	cmd, _, _ := strings.Cut(ctx.Command(), " ")
	switch cmd {
	case "registers":
		cfg.mode = registersMode
	case "builtin":
		cfg.mode = builtinMode
	case "all":
		cfg.mode = allMode
	case "settings":
		cfg.mode = settingsMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = waveMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(ctx.Stdout, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return errors.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return errors.New("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return errors.New("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

// outfile is an output given as FILE|stdout|stderr. A file is only created
// when Create is called, so nothing is left behind if the run fails before.
type outfile struct {
	name string
}

// Decode implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	name, ok := tok.Value.(string)
	if !ok || name == "" {
		return errors.Errorf("expected FILE, stdout or stderr, got %v", tok.Value)
	}
	f.name = name
	return nil
}

func (f *outfile) String() string { return f.name }

// Create opens the output for writing. Closing stdout or stderr is a no-op.
func (f *outfile) Create() (io.WriteCloser, error) {
	switch f.name {
	case "stdout":
		return nopCloser{os.Stdout}, nil
	case "stderr":
		return nopCloser{os.Stderr}, nil
	}
	return os.Create(f.name)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf("%s.\n\t%s", fmt.Sprintf(format, args...), err)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
