package plan

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeYAML parses a YAML plan with strict field validation (catches typos
// like "op:" vs "ops:").
func decodeYAML(data []byte) (*planFile, error) {
	var pf planFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pf); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	return &pf, nil
}
