package storage

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/galaxygarden/nbody-datagen/internal/config"
	"github.com/galaxygarden/nbody-datagen/pkg/core"
)

// cancellation is polled once per this many bodies
const ctxCheckEvery = 4096

// FileBackend writes datasets as text files in the output directory.
// The directory must already exist.
type FileBackend struct {
	cfg config.OutputConfig
}

// NewFileBackend creates a file backend
func NewFileBackend(cfg config.OutputConfig) *FileBackend {
	return &FileBackend{cfg: cfg}
}

// Write streams bodies into a temp file next to the target and renames it
// into place once every body is written. On any failure the temp file is
// removed and an existing target is left untouched.
func (b *FileBackend) Write(ctx context.Context, name string, bodies iter.Seq[core.Body]) (res Result, err error) {
	target := filepath.Join(b.cfg.Dir, name)
	res.Path = target

	f, err := os.CreateTemp(b.cfg.Dir, "."+name+".tmp-*")
	if err != nil {
		return res, &IOError{Op: "create", Path: target, Err: err}
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	var w io.Writer = f
	var gz *gzip.Writer
	if b.cfg.Compress {
		gz = gzip.NewWriter(f)
		w = gz
	}

	enc := NewEncoder(w)
	for body := range bodies {
		if res.Bodies%ctxCheckEvery == 0 {
			if cerr := ctx.Err(); cerr != nil {
				return res, cerr
			}
		}
		if err = enc.Encode(body); err != nil {
			return res, &IOError{Op: "write", Path: tmp, Err: err}
		}
		res.Bodies++
	}
	if err = enc.Flush(); err != nil {
		return res, &IOError{Op: "write", Path: tmp, Err: err}
	}
	res.Bytes = enc.Bytes()

	if gz != nil {
		if err = gz.Close(); err != nil {
			return res, &IOError{Op: "compress", Path: tmp, Err: err}
		}
	}
	if err = f.Chmod(0o644); err != nil {
		return res, &IOError{Op: "chmod", Path: tmp, Err: err}
	}
	if err = f.Close(); err != nil {
		return res, &IOError{Op: "close", Path: tmp, Err: err}
	}
	if err = os.Rename(tmp, target); err != nil {
		return res, &IOError{Op: "rename", Path: target, Err: fmt.Errorf("from %s: %w", tmp, err)}
	}
	return res, nil
}

// DiscardBackend encodes and counts bodies without storing them.
type DiscardBackend struct{}

// Write drains bodies through the encoder into io.Discard.
func (DiscardBackend) Write(ctx context.Context, name string, bodies iter.Seq[core.Body]) (Result, error) {
	res := Result{Path: name}
	enc := NewEncoder(io.Discard)
	for body := range bodies {
		if res.Bodies%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		_ = enc.Encode(body)
		res.Bodies++
	}
	_ = enc.Flush()
	res.Bytes = enc.Bytes()
	return res, nil
}
