package deepclone

import "context"

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// codecCloner clones by round-tripping through a codec.
type codecCloner[T any] struct {
	codec Codec
}

// Through returns a Cloner that deep clones T by encoding it with c and
// decoding the bytes into a fresh value. It suits opaque types that already
// round-trip through a codec; fields the codec does not carry are lost.
//
// CloneFrom zeroes *dst before decoding into it, so no field of the old
// value survives. An encode or decode failure panics with a *CodecError.
func Through[T any](c Codec) Cloner[T] {
	return codecCloner[T]{codec: c}
}

func (c codecCloner[T]) Clone(src T) T {
	var out T
	c.unmarshal(c.marshal(src), &out)
	return out
}

func (c codecCloner[T]) CloneFrom(dst *T, src T) {
	data := c.marshal(src)
	var zero T
	*dst = zero
	c.unmarshal(data, dst)
}

func (c codecCloner[T]) marshal(src T) []byte {
	data, err := c.codec.Marshal(&src)
	if err != nil {
		c.fail("marshal", err)
	}
	return data
}

func (c codecCloner[T]) unmarshal(data []byte, dst *T) {
	if err := c.codec.Unmarshal(data, dst); err != nil {
		c.fail("unmarshal", err)
	}
}

func (c codecCloner[T]) fail(op string, cause error) {
	contentType := c.codec.ContentType()
	err := newCodecError(op, contentType, cause)
	emitCodecFailed(context.Background(), contentType, op, err)
	panic(err)
}

