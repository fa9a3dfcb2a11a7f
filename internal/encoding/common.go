// Package encoding provides the load/unmarshal and marshal/save plumbing
// shared by the configuration loader, the action record, and the JSON
// report.
package encoding

import (
	"fmt"
	"os"

	"github.com/frontdown/frontdown/internal/atomicio"
	"github.com/frontdown/frontdown/internal/logging"
)

// LoadAndUnmarshal reads the file at path and invokes unmarshal (usually a
// closure wrapping a format-specific decoder) on its contents.
func LoadAndUnmarshal(path string, unmarshal func([]byte) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("unable to load file: %w", err)
	}
	if err := unmarshal(data); err != nil {
		return fmt.Errorf("unable to unmarshal data: %w", err)
	}
	return nil
}

// MarshalAndSave invokes marshal (usually a closure wrapping a
// format-specific encoder) and writes the result atomically to path with
// user-only read/write permissions.
func MarshalAndSave(path string, marshal func() ([]byte, error), logger *logging.Logger) error {
	data, err := marshal()
	if err != nil {
		return fmt.Errorf("unable to marshal message: %w", err)
	}
	if err := atomicio.WriteFile(path, data, 0600, logger); err != nil {
		return fmt.Errorf("unable to write message data: %w", err)
	}
	return nil
}
