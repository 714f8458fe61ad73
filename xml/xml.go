// Package xml clones values through an XML round trip.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/deepclone"
)

type xmlCodec struct{}

// New returns an XML codec. Documents carry the standard XML header.
func New() deepclone.Codec {
	return &xmlCodec{}
}

func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

// Cloner returns a Cloner for T backed by XML. Maps cannot be encoded, so
// T must be made of structs, slices and scalars.
func Cloner[T any]() deepclone.Cloner[T] {
	return deepclone.Through[T](New())
}
