// Package bson provides a BSON codec for delivering rendered views.
package bson

import (
	"sort"

	"github.com/zoobzio/veil"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements veil.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec. Generic maps, such as a view decoded from
// JSON, are converted to ordered documents with sorted keys before
// encoding. BSON requires a document at the root.
func New() veil.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(ordered(v))
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}

// ordered rewrites map[string]any values, recursively, as bson.D.
func ordered(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		doc := make(bson.D, 0, len(keys))
		for _, k := range keys {
			doc = append(doc, bson.E{Key: k, Value: ordered(t[k])})
		}
		return doc
	case []any:
		out := make(bson.A, len(t))
		for i, e := range t {
			out[i] = ordered(e)
		}
		return out
	default:
		return v
	}
}
