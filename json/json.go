// Package json provides the JSON codec veil renders views with.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zoobzio/veil"
)

// jsonCodec implements veil.Codec for JSON.
type jsonCodec struct {
	prefix string
	indent string
}

// New returns a compact JSON codec.
func New() veil.Codec {
	return &jsonCodec{}
}

// NewIndent returns a JSON codec whose Marshal output is indented.
// Filtered renders are written by the walker and stay compact.
func NewIndent(prefix, indent string) veil.Codec {
	return &jsonCodec{prefix: prefix, indent: indent}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	if c.prefix == "" && c.indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, c.prefix, c.indent)
}

// Unmarshal decodes JSON data into v. Trailing data after the first
// value is rejected.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("json: unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return nil
}
