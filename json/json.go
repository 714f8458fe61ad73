// Package json clones values through a JSON round trip.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/zoobzio/deepclone"
)

type jsonCodec struct{}

// New returns a JSON codec. Strings are written without HTML escaping, and
// the trailing newline of each document is kept.
func New() deepclone.Codec {
	return &jsonCodec{}
}

func (c *jsonCodec) ContentType() string {
	return "application/json"
}

func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Cloner returns a Cloner for T backed by JSON. Unexported fields and
// anything tagged json:"-" do not survive.
func Cloner[T any]() deepclone.Cloner[T] {
	return deepclone.Through[T](New())
}
