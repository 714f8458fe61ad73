// Package msgpack clones values through a MessagePack round trip.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/deepclone"
)

type msgpackCodec struct{}

// New returns a MessagePack codec. Map keys are written in sorted order,
// so equal values always produce equal bytes.
func New() deepclone.Codec {
	return &msgpackCodec{}
}

func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// Cloner returns a Cloner for T backed by MessagePack.
func Cloner[T any]() deepclone.Cloner[T] {
	return deepclone.Through[T](New())
}
