package veil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Sink receives the token stream of a render.
// Structural misuse is reported as ErrSink.
type Sink interface {
	BeginObject() error
	EndObject() error
	BeginArray() error
	EndArray() error

	// Name writes the next property name of the open object.
	Name(name string) error

	String(value string) error
	Null() error

	// Raw writes an already encoded JSON value.
	Raw(data []byte) error

	// Checkpoint marks the current output position.
	Checkpoint() Checkpoint

	// Rewind discards everything written since c.
	Rewind(c Checkpoint)
}

// Checkpoint is an opaque sink position.
type Checkpoint struct {
	size  int
	state []frame
}

// frame tracks one open object or array.
type frame struct {
	object  bool
	entries int
	named   bool // object only: a name awaits its value
}

// JSONSink buffers a render as compact JSON.
type JSONSink struct {
	buf   bytes.Buffer
	stack []frame
}

// NewJSONSink creates an empty JSONSink.
func NewJSONSink() *JSONSink {
	return &JSONSink{}
}

// Bytes returns the written JSON. The result is only complete once every
// opened object and array has been closed.
func (s *JSONSink) Bytes() []byte {
	return s.buf.Bytes()
}

// Complete reports whether at least one value was written and every
// container was closed.
func (s *JSONSink) Complete() bool {
	return len(s.stack) == 0 && s.buf.Len() > 0
}

// value prepares the buffer for the next value.
func (s *JSONSink) value() error {
	if len(s.stack) == 0 {
		if s.buf.Len() > 0 {
			return fmt.Errorf("%w: multiple top-level values", ErrSink)
		}
		return nil
	}
	top := &s.stack[len(s.stack)-1]
	if top.object {
		if !top.named {
			return fmt.Errorf("%w: object value without a name", ErrSink)
		}
		top.named = false
		return nil
	}
	if top.entries > 0 {
		s.buf.WriteByte(',')
	}
	top.entries++
	return nil
}

func (s *JSONSink) BeginObject() error {
	if err := s.value(); err != nil {
		return err
	}
	s.buf.WriteByte('{')
	s.stack = append(s.stack, frame{object: true})
	return nil
}

func (s *JSONSink) EndObject() error {
	if len(s.stack) == 0 || !s.stack[len(s.stack)-1].object {
		return fmt.Errorf("%w: no open object", ErrSink)
	}
	if s.stack[len(s.stack)-1].named {
		return fmt.Errorf("%w: name without a value", ErrSink)
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.buf.WriteByte('}')
	return nil
}

func (s *JSONSink) BeginArray() error {
	if err := s.value(); err != nil {
		return err
	}
	s.buf.WriteByte('[')
	s.stack = append(s.stack, frame{})
	return nil
}

func (s *JSONSink) EndArray() error {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].object {
		return fmt.Errorf("%w: no open array", ErrSink)
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.buf.WriteByte(']')
	return nil
}

func (s *JSONSink) Name(name string) error {
	if len(s.stack) == 0 || !s.stack[len(s.stack)-1].object {
		return fmt.Errorf("%w: name %q outside an object", ErrSink, name)
	}
	top := &s.stack[len(s.stack)-1]
	if top.named {
		return fmt.Errorf("%w: name %q follows a name", ErrSink, name)
	}
	if top.entries > 0 {
		s.buf.WriteByte(',')
	}
	top.entries++
	top.named = true
	if err := s.quote(name); err != nil {
		return err
	}
	s.buf.WriteByte(':')
	return nil
}

func (s *JSONSink) String(value string) error {
	if err := s.value(); err != nil {
		return err
	}
	return s.quote(value)
}

func (s *JSONSink) Null() error {
	if err := s.value(); err != nil {
		return err
	}
	s.buf.WriteString("null")
	return nil
}

func (s *JSONSink) Raw(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: empty raw value", ErrSink)
	}
	if err := s.value(); err != nil {
		return err
	}
	s.buf.Write(data)
	return nil
}

// quote writes a JSON string literal with encoding/json's escaping.
func (s *JSONSink) quote(v string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	s.buf.Write(data)
	return nil
}

func (s *JSONSink) Checkpoint() Checkpoint {
	return Checkpoint{size: s.buf.Len(), state: slices.Clone(s.stack)}
}

func (s *JSONSink) Rewind(c Checkpoint) {
	s.buf.Truncate(c.size)
	s.stack = slices.Clone(c.state)
}
