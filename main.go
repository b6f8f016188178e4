package main

import (
	"fmt"
	"os"

	"mifgen/settings"
)

// version is set at link time.
var version = "devel"

func main() {
	args := parseArgs(os.Args[1:])
	cfg := loadSettings(args.Config)

	switch args.mode {
	case versionMode:
		fmt.Println("mifgen", version)
	case settingsMode:
		settingsMain(args, cfg)
	case waveMode:
		waveMain(args, cfg)
	case registersMode:
		registersMain(args, cfg)
	case builtinMode:
		builtinMain(args, cfg)
	case allMode:
		allMain(args, cfg)
	}
}

func loadSettings(path string) settings.Config {
	if path != "" {
		cfg, err := settings.Load(path)
		checkf(err, "failed to load settings")
		return cfg
	}
	cfg, err := settings.LoadOrDefault()
	checkf(err, "failed to load settings")
	return cfg
}

func settingsMain(args CLI, cfg settings.Config) {
	checkf(settings.Encode(os.Stdout, cfg), "failed to encode settings")
	if args.Settings.Save {
		path, err := settings.Save(cfg)
		checkf(err, "failed to save settings")
		fmt.Fprintln(os.Stderr, "settings written to", path)
	}
}
