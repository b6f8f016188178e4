package main

import (
	"os"
	"path/filepath"

	"mifgen/gen"
	"mifgen/log"
	"mifgen/mif"
	"mifgen/regdoc"
	"mifgen/settings"
)

// waveMain writes the waveform image to the path given on the command line,
// or applies the missing path policy.
func waveMain(args CLI, cfg settings.Config) {
	path, ok := wavePath(args, cfg)
	if !ok {
		args.usage()
		os.Exit(0)
	}
	checkf(writeWave(args, cfg, path), "failed to write waveform")
}

// wavePath returns the path where the waveform is written. ok is false if no
// path was given and the settings ask for usage instead.
func wavePath(args CLI, cfg settings.Config) (path string, ok bool) {
	if args.Wave.Path != "" {
		return args.Wave.Path, true
	}
	if cfg.CLI.MissingPath == settings.MissingPathUsage {
		return "", false
	}
	log.ModCLI.InfoZ("no output file, using default path").
		String("path", cfg.CLI.DefaultPath).
		End()
	return cfg.CLI.DefaultPath, true
}

func writeWave(args CLI, cfg settings.Config, path string) error {
	imgs, err := gen.Generate(gen.Config{Targets: gen.Waveform, Settings: cfg, Style: args.Style})
	if err != nil {
		return err
	}
	img := imgs[cfg.Waveform.Output.Name]
	return writeImages(args, []pathImage{{path, img}})
}

func registersMain(args CLI, cfg settings.Config) {
	doc := loadDoc(args.Registers.Doc)
	imgs := generate(args, gen.Config{Targets: gen.Registers, Document: doc, Settings: cfg})
	dir := outDir(args.Registers.OutDir, cfg)
	checkf(writeImages(args, inDir(dir, imgs)), "failed to write register images")
}

func builtinMain(args CLI, cfg settings.Config) {
	imgs := generate(args, gen.Config{Targets: gen.Builtin, Settings: cfg})
	dir := outDir(args.Builtin.OutDir, cfg)
	checkf(writeImages(args, inDir(dir, imgs)), "failed to write built-in register images")
}

func allMain(args CLI, cfg settings.Config) {
	doc := loadDoc(args.All.Doc)
	imgs := generate(args, gen.Config{Targets: gen.AllTargets, Document: doc, Settings: cfg})
	dir := outDir(args.All.OutDir, cfg)
	checkf(writeImages(args, inDir(dir, imgs)), "failed to write images")
}

func loadDoc(path string) *regdoc.Document {
	doc, err := regdoc.Load(path)
	checkf(err, "failed to load register document")
	return doc
}

func generate(args CLI, gcfg gen.Config) gen.Images {
	gcfg.Style = args.Style
	imgs, err := gen.Generate(gcfg)
	checkf(err, "failed to generate images")
	return imgs
}

func outDir(flag string, cfg settings.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.OutDir
}

type pathImage struct {
	path string
	img  *mif.Image
}

// inDir places all images in dir, in name order.
func inDir(dir string, imgs gen.Images) []pathImage {
	var pis []pathImage
	for _, name := range imgs.Names() {
		pis = append(pis, pathImage{filepath.Join(dir, name), imgs[name]})
	}
	return pis
}

// writeImages writes each image to its path, then the manifest if one was
// requested. Empty images are skipped and don't appear in the manifest. The
// manifest is only created once all images have been written.
func writeImages(args CLI, pis []pathImage) error {
	var man mif.Manifest
	for _, pi := range pis {
		if pi.img.Empty() {
			log.ModCLI.WarnZ("empty image, not written").
				String("name", pi.img.Name).
				String("path", pi.path).
				End()
			continue
		}
		dir := filepath.Dir(pi.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &mif.IOError{Path: dir, Err: err}
		}
		if err := mif.WriteFile(pi.path, pi.img); err != nil {
			return err
		}
		man.Add(pi.path, pi.img)
	}

	if args.Manifest == nil {
		return nil
	}
	return writeManifest(args.Manifest, &man)
}

func writeManifest(out *outfile, man *mif.Manifest) error {
	w, err := out.Create()
	if err != nil {
		return &mif.IOError{Path: out.name, Err: err}
	}
	if _, err := man.WriteTo(w); err != nil {
		w.Close()
		return &mif.IOError{Path: out.name, Err: err}
	}
	if err := w.Close(); err != nil {
		return &mif.IOError{Path: out.name, Err: err}
	}
	return nil
}
