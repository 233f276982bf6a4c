package config

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
)

// WriteSchema writes the JSON schema of Config, keyed by config file names.
func WriteSchema(w io.Writer) error {
	reflector := &jsonschema.Reflector{
		FieldNameTag:   "mapstructure",
		ExpandedStruct: true,
	}
	s := reflector.Reflect(&Config{})
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
