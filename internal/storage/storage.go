// internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"iter"

	"github.com/galaxygarden/nbody-datagen/pkg/core"
)

// Backend is the interface all dataset sinks must satisfy
type Backend interface {
	// Write consumes bodies and stores them under the given file name.
	Write(ctx context.Context, name string, bodies iter.Seq[core.Body]) (Result, error)
}

// Result describes what a Backend stored
type Result struct {
	Path   string
	Bodies int64
	Bytes  int64
}

// IOError reports a failure to create, write or publish a dataset file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
