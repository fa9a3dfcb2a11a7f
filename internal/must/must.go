// Package must provides helpers for operations whose errors can only be
// logged, not meaningfully handled — typically cleanup performed while an
// outer operation is already failing.
package must

import (
	"io"
	"os"

	"github.com/frontdown/frontdown/internal/logging"
)

// Close closes c, logging (rather than returning) any error.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %v", err)
	}
}

// OSRemove removes the file at path, logging (rather than returning) any
// error other than the file already being absent.
func OSRemove(path string, logger *logging.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("unable to remove %q: %v", path, err)
	}
}
