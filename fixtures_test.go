package veil

import (
	"encoding/json"
	"errors"
	"sync/atomic"
)

// testCodec is a simple JSON codec for testing without importing veil/json.
type testCodec struct{}

func (c *testCodec) ContentType() string { return "application/json" }

func (c *testCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *testCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type Entity struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone" view.mask:"phone"`
}

type Nested struct {
	Entity *Entity `json:"entity"`
}

type Wrapper struct {
	Entity *Entity `json:"entity"`
	Nested Nested  `json:"nested"`
}

type Team struct {
	Name    string            `json:"name"`
	Members []Entity          `json:"members"`
	Leads   []*Entity         `json:"leads,omitempty"`
	Lookup  map[string]Entity `json:"lookup,omitempty"`
	Labels  []string          `json:"labels"`
}

// broken always fails to marshal.
type broken struct{}

func (broken) MarshalJSON() ([]byte, error) {
	return nil, errors.New("broken value")
}

type Fragile struct {
	ID   int    `json:"id"`
	Bad  broken `json:"bad"`
	Name string `json:"name"`
}

// flaky describes itself and fails the first read of "value".
type flaky struct {
	reads *atomic.Int32
	panic bool
}

func (f flaky) DescribeProperties() []string {
	return []string{"key", "value"}
}

func (f flaky) PropertyValue(name string) (any, error) {
	switch name {
	case "key":
		return "k", nil
	case "value":
		if f.reads.Add(1) == 1 {
			if f.panic {
				panic("first read")
			}
			return nil, errors.New("first read")
		}
		return "v", nil
	}
	return nil, errors.New("no such property")
}

// exploding panics on every read of "boom".
type exploding struct{}

func (exploding) DescribeProperties() []string {
	return []string{"boom", "ok"}
}

func (exploding) PropertyValue(name string) (any, error) {
	if name == "boom" {
		panic("boom")
	}
	return "fine", nil
}

type Holder struct {
	A Inner `json:"a"`
	B Inner `json:"b"`
}

type Inner struct {
	X    exploding `json:"x"`
	Item *Entity   `json:"item"`
}
