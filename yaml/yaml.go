// Package yaml provides a YAML codec for delivering rendered views.
package yaml

import (
	"bytes"

	"github.com/zoobzio/veil"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements veil.Codec for YAML.
type yamlCodec struct {
	indent int
}

// New returns a YAML codec using the library's default indentation.
func New() veil.Codec {
	return &yamlCodec{}
}

// NewIndent returns a YAML codec indenting nested nodes by spaces.
func NewIndent(spaces int) veil.Codec {
	return &yamlCodec{indent: spaces}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML. Mapping keys are emitted in sorted order.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	if c.indent <= 0 {
		return yaml.Marshal(v)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the first YAML document in data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
