package encoding

import (
	"encoding/json"

	"github.com/frontdown/frontdown/internal/logging"
)

// LoadAndUnmarshalJSON loads data from the specified path and decodes it
// into value as JSON.
func LoadAndUnmarshalJSON(path string, value interface{}) error {
	return LoadAndUnmarshal(path, func(data []byte) error {
		return json.Unmarshal(data, value)
	})
}

// MarshalAndSaveJSON marshals value as indented JSON and writes it
// atomically to path.
func MarshalAndSaveJSON(path string, value interface{}, logger *logging.Logger) error {
	return MarshalAndSave(path, func() ([]byte, error) {
		return json.MarshalIndent(value, "", "  ")
	}, logger)
}
