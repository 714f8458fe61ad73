// Package bson clones values through a BSON round trip.
package bson

import (
	"github.com/zoobzio/deepclone"
	"go.mongodb.org/mongo-driver/bson"
)

// valueKey names the single element of the envelope document.
const valueKey = "v"

type bsonCodec struct{}

// New returns a BSON codec. BSON documents must be maps or structs, so
// every value is wrapped in a one-element document. Slices and scalars
// round-trip as well as structs.
func New() deepclone.Codec {
	return &bsonCodec{}
}

func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(bson.D{{Key: valueKey, Value: v}})
}

func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	val, err := bson.Raw(data).LookupErr(valueKey)
	if err != nil {
		return err
	}
	return val.Unmarshal(v)
}

// Cloner returns a Cloner for T backed by BSON. Times lose precision below
// a millisecond.
func Cloner[T any]() deepclone.Cloner[T] {
	return deepclone.Through[T](New())
}
