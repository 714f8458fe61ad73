package json

import (
	"errors"
	"testing"

	"github.com/zoobzio/deepclone"
)

type record struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Items []string `json:"items"`
}

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
	}
}

func TestCloner_Clone(t *testing.T) {
	original := record{Name: "alpha", Count: 3, Items: []string{"a", "b"}}

	clone := Cloner[record]().Clone(original)

	if clone.Name != original.Name || clone.Count != original.Count || len(clone.Items) != 2 {
		t.Fatalf("Clone() = %+v, want %+v", clone, original)
	}
	clone.Items[0] = "changed"
	if original.Items[0] != "a" {
		t.Error("Clone() result should not share Items with the original")
	}
}

func TestCloner_CloneFrom(t *testing.T) {
	dst := record{Name: "stale", Count: 9, Items: []string{"x", "y", "z"}}
	src := record{Name: "fresh", Count: 1, Items: []string{"a"}}

	Cloner[record]().CloneFrom(&dst, src)

	if dst.Name != "fresh" || dst.Count != 1 {
		t.Errorf("CloneFrom() = %+v, want %+v", dst, src)
	}
	if len(dst.Items) != 1 || dst.Items[0] != "a" {
		t.Errorf("CloneFrom() Items = %v, want [a]", dst.Items)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v record
	if err := c.Unmarshal([]byte("\x00\x01 not json <"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestCloner_MarshalFailurePanics(t *testing.T) {
	err := deepclone.Recover(func() {
		Cloner[func()]().Clone(func() {})
	})
	if !errors.Is(err, deepclone.ErrCodec) {
		t.Errorf("Recover() = %v, want ErrCodec", err)
	}
}

func TestMarshal_KeepsHTML(t *testing.T) {
	data, err := New().Marshal("<a&b>")
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != "\"<a&b>\"\n" {
		t.Errorf("Marshal() = %q, want unescaped HTML", data)
	}
}
