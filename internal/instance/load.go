package instance

import (
	"encoding/json"
	"fmt"
	"io"

	"railopt/internal/railerr"
)

// LoadFromReader parses an instance JSON document and validates it,
// mirroring the decode-then-validate shape the teacher repo used for its
// own route/fleet loaders.
func LoadFromReader(r io.Reader) (*Instance, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var inst Instance
	if err := dec.Decode(&inst); err != nil {
		return nil, railerr.Wrap(railerr.InstanceInvalid, "decode instance", fmt.Errorf("decode instance: %w", err))
	}
	if err := Validate(&inst); err != nil {
		return nil, err
	}
	return &inst, nil
}
