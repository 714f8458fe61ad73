package yaml

import "testing"

type record struct {
	Name  string   `yaml:"name"`
	Count int      `yaml:"count"`
	Items []string `yaml:"items"`
}

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
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
	if err := c.Unmarshal([]byte("\x00\x01 not yaml <"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}


func TestUnmarshal_UnknownField(t *testing.T) {
	var v record
	if err := New().Unmarshal([]byte("name: a\nextra: 1\n"), &v); err == nil {
		t.Error("Unmarshal() should reject fields that do not exist")
	}
}
