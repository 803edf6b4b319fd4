package cbor

import (
	"bytes"
	"testing"
)

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/cbor" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/cbor")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `cbor:"name"`
		Value int    `cbor:"value"`
	}

	original := TestStruct{Name: "test", Value: 42}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored TestStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestUnmarshalGenericMap(t *testing.T) {
	c := New()

	data, err := c.Marshal(map[string]any{"name": "Alice", "nested": map[string]any{"ok": true}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var tree any
	if err := c.Unmarshal(data, &tree); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	m, ok := tree.(map[string]any)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want map[string]any", tree)
	}
	nested, ok := m["nested"].(map[string]any)
	if !ok || nested["ok"] != true {
		t.Errorf("nested = %#v", m["nested"])
	}
}

func TestMarshalDeterministic(t *testing.T) {
	c := New()

	first, err := c.Marshal(map[string]any{"b": 1.5, "a": "x", "c": []any{1.0, 2.0}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := c.Marshal(map[string]any{"c": []any{1.0, 2.0}, "a": "x", "b": 1.5})
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("Marshal() output is not deterministic")
		}
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v struct{}
	if err := c.Unmarshal([]byte{0xff, 0xff}, &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
