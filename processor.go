package veil

import (
	"context"
	"fmt"
	"io"
	"mime"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Processor renders values as filtered, masked JSON views.
//
// Processors are safe for concurrent use. Configuration methods (SetMasker,
// SetMaskerFactory, SetAccessor) may be called at any time; renders already
// in flight keep the accessor they started with.
type Processor struct {
	codec   Codec
	maskers *MaskerRegistry

	// Mutable configuration protected by mu
	mu       sync.RWMutex
	accessor PropertyAccessor
}

// NewProcessor creates a Processor that uses codec as its default serializer.
//
// The codec must produce JSON, since its output is spliced into the view.
// The processor starts with the builtin maskers and a ReflectAccessor.
func NewProcessor(codec Codec) (*Processor, error) {
	if codec == nil {
		return nil, newConfigError(ErrInvalidCodec, "", "")
	}
	if !isJSONContentType(codec.ContentType()) {
		return nil, newConfigError(ErrInvalidCodec, codec.ContentType(), "")
	}

	p := &Processor{
		codec:    codec,
		maskers:  NewMaskerRegistry(),
		accessor: NewReflectAccessor(),
	}

	emitProcessorCreated(context.Background(), codec.ContentType())
	return p, nil
}

// isJSONContentType reports whether ct names JSON or a +json suffix type.
func isJSONContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// SetMasker registers a masker for the given type.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetMasker(mt MaskType, m Masker) *Processor {
	p.maskers.Register(mt, m)
	return p
}

// SetMaskerFactory registers a lazily created masker for the given type.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetMaskerFactory(mt MaskType, f MaskerFactory) *Processor {
	p.maskers.RegisterFactory(mt, f)
	return p
}

// SetAccessor replaces the property accessor.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetAccessor(a PropertyAccessor) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accessor = a
	return p
}

// Maskers returns the processor's masker registry.
func (p *Processor) Maskers() *MaskerRegistry {
	return p.maskers
}

// Codec returns the default serializer.
func (p *Processor) Codec() Codec {
	return p.codec
}

// Render writes v as JSON filtered by index.
//
// When index holds no rules the output is exactly the codec's encoding of
// v. Otherwise fields that fail are isolated per field; an error is only
// returned for failures outside any filtered object.
func (p *Processor) Render(ctx context.Context, index *RuleIndex, v any) ([]byte, error) {
	start := time.Now()
	renderID := uuid.NewString()
	typeName := typeNameOf(v)
	emitRenderStart(ctx, renderID, p.codec.ContentType(), typeName)

	var (
		retErr  error
		retData []byte
		stats   walkStats
	)
	defer func() {
		emitRenderComplete(ctx, renderID, p.codec.ContentType(), typeName,
			len(retData), time.Since(start), stats, retErr)
	}()

	if !index.HasRules() {
		data, err := p.codec.Marshal(v)
		if err != nil {
			retErr = newCodecError(ErrMarshal, err)
			return nil, retErr
		}
		retData = data
		return retData, nil
	}

	p.mu.RLock()
	accessor := p.accessor
	p.mu.RUnlock()

	sink := NewJSONSink()
	w := &walker{
		ctx:      ctx,
		id:       renderID,
		index:    index,
		path:     NewPathTracker(),
		codec:    p.codec,
		maskers:  p.maskers,
		accessor: accessor,
		sink:     sink,
	}
	err := w.run(v)
	stats = w.stats
	if err != nil {
		retErr = err
		return nil, retErr
	}
	if !sink.Complete() {
		retErr = fmt.Errorf("%w: incomplete document", ErrSink)
		return nil, retErr
	}

	retData = sink.Bytes()
	return retData, nil
}

// RenderTo renders v and writes the result to w.
// A failing writer is reported as ErrWrite.
func (p *Processor) RenderTo(ctx context.Context, w io.Writer, index *RuleIndex, v any) error {
	data, err := p.Render(ctx, index, v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// RenderAs renders v and re-encodes the view with target, so a filtered
// view can be delivered as YAML, MessagePack, BSON or any other codec.
func (p *Processor) RenderAs(ctx context.Context, index *RuleIndex, v any, target Codec) ([]byte, error) {
	data, err := p.Render(ctx, index, v)
	if err != nil {
		return nil, err
	}
	if target == nil || target.ContentType() == p.codec.ContentType() {
		return data, nil
	}

	var tree any
	if err := p.codec.Unmarshal(data, &tree); err != nil {
		return nil, newCodecError(ErrUnmarshal, err)
	}
	out, err := target.Marshal(tree)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return out, nil
}

// Send renders v with the view declared for sig. The declaration is
// compiled once per signature and cached; see Use.
func (p *Processor) Send(ctx context.Context, sig Signature, declare func() View, v any) ([]byte, error) {
	index, err := Use(sig, declare)
	if err != nil {
		return nil, err
	}
	return p.Render(ctx, index, v)
}

// typeNameOf names the dynamic type of v for signals.
func typeNameOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	return derefType(t).String()
}
