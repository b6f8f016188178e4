package mif

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"mifgen/log"
)

// DefaultFileMode is the permission of the written files.
const DefaultFileMode = os.FileMode(0644)

var ErrIO = errors.New("i/o failure")

// IOError records a failure to write an image file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string        { return "write " + e.Path + ": " + e.Err.Error() }
func (e *IOError) Unwrap() error        { return e.Err }
func (e *IOError) Is(target error) bool { return target == ErrIO }

// WriteFile writes img to path. The whole file is first formatted in memory,
// then written to a temporary file in the same directory which is renamed
// into path. On failure, path is left untouched. An empty image is a no-op: no
// file is created.
func WriteFile(path string, img *Image) error {
	if img.Empty() {
		log.ModMif.DebugZ("empty image, nothing to write").
			String("name", img.Name).
			String("path", path).
			End()
		return nil
	}

	var buf bytes.Buffer
	if _, err := img.WriteTo(&buf); err != nil {
		return err
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return &IOError{Path: path, Err: err}
	}

	log.ModMif.InfoZ("wrote image").
		String("name", img.Name).
		String("path", path).
		Int("width", img.Width).
		Int("depth", img.Depth).
		String("style", img.Style.Name).
		End()
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Chmod(DefaultFileMode); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
