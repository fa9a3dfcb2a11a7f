// Package atomicio provides write-temp-then-rename primitives used to
// persist the action record and metadata files without ever leaving a
// half-written file behind.
package atomicio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/frontdown/frontdown/internal/logging"
	"github.com/frontdown/frontdown/internal/must"
)

// temporaryNamePrefix is the file name prefix used for intermediate
// temporary files.
const temporaryNamePrefix = ".frontdown-atomic-write-"

// WriteFile writes data to path in an atomic fashion by using an
// intermediate temporary file in the same directory, swapped into place
// with a rename.
func WriteFile(path string, data []byte, permissions os.FileMode, logger *logging.Logger) error {
	directory := filepath.Dir(path)

	temporary, err := os.CreateTemp(directory, temporaryNamePrefix)
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}

	if _, err := temporary.Write(data); err != nil {
		must.Close(temporary, logger)
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to write data to temporary file: %w", err)
	}

	if err := temporary.Close(); err != nil {
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	if err := os.Chmod(temporary.Name(), permissions); err != nil {
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to change file permissions: %w", err)
	}

	if err := os.Rename(temporary.Name(), path); err != nil {
		must.OSRemove(temporary.Name(), logger)
		return fmt.Errorf("unable to rename file into place: %w", err)
	}

	return nil
}
