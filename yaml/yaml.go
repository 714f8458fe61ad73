// Package yaml clones values through a YAML round trip.
package yaml

import (
	"bytes"

	"github.com/zoobzio/deepclone"
	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

// New returns a YAML codec. Decoding rejects mapping keys that have no
// matching field, so a lossy round trip fails instead of silently dropping
// data.
func New() deepclone.Codec {
	return &yamlCodec{}
}

func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// Cloner returns a Cloner for T backed by YAML.
func Cloner[T any]() deepclone.Cloner[T] {
	return deepclone.Through[T](New())
}
