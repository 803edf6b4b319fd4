package veil

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for render events.
var (
	SignalProcessorCreated = capitan.NewSignal("veil.processor.created", "Processor instantiated")
	SignalIndexBuilt       = capitan.NewSignal("veil.index.built", "Rule index built for an operation signature")
	SignalRenderStart      = capitan.NewSignal("veil.render.start", "Render operation beginning")
	SignalRenderComplete   = capitan.NewSignal("veil.render.complete", "Render operation finished")
	SignalMaskFailed       = capitan.NewSignal("veil.mask.failed", "Masker failed, original value kept")
	SignalFieldFallback    = capitan.NewSignal("veil.field.fallback", "Field failed, retrying with default representation")
	SignalFieldSkipped     = capitan.NewSignal("veil.field.skipped", "Field omitted after fallback failed")
)

// Keys for typed event data.
var (
	KeyRenderID      = capitan.NewStringKey("render_id")
	KeyContentType   = capitan.NewStringKey("content_type")
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeySignature     = capitan.NewStringKey("signature")
	KeyField         = capitan.NewStringKey("field")
	KeyPath          = capitan.NewStringKey("path")
	KeyMaskType      = capitan.NewStringKey("mask_type")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeyRuleCount     = capitan.NewIntKey("rule_count")
	KeyMaskedCount   = capitan.NewIntKey("masked_count")
	KeyFallbackCount = capitan.NewIntKey("fallback_count")
	KeySkippedCount  = capitan.NewIntKey("skipped_count")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
	)
}

// emitIndexBuilt emits an event when a signature's rule index is built.
func emitIndexBuilt(ctx context.Context, sig Signature, rules int) {
	capitan.Emit(ctx, SignalIndexBuilt,
		KeySignature.Field(string(sig)),
		KeyRuleCount.Field(rules),
	)
}

// emitRenderStart emits an event when a render begins.
func emitRenderStart(ctx context.Context, renderID, contentType, typeName string) {
	capitan.Emit(ctx, SignalRenderStart,
		KeyRenderID.Field(renderID),
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitRenderComplete emits an event when a render finishes.
func emitRenderComplete(ctx context.Context, renderID, contentType, typeName string, size int, duration time.Duration, stats walkStats, err error) {
	fields := []capitan.Field{
		KeyRenderID.Field(renderID),
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyMaskedCount.Field(stats.masked),
		KeyFallbackCount.Field(stats.fallback),
		KeySkippedCount.Field(stats.skipped),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRenderComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRenderComplete, fields...)
	}
}

// emitMaskFailed emits an error event when a masker cannot produce a value.
func emitMaskFailed(ctx context.Context, mt MaskType, err error) {
	capitan.Error(ctx, SignalMaskFailed,
		KeyMaskType.Field(string(mt)),
		KeyError.Field(err),
	)
}

// emitFieldFallback emits an error event when a field falls back to its default representation.
func emitFieldFallback(ctx context.Context, renderID, field, path string, err error) {
	capitan.Error(ctx, SignalFieldFallback,
		KeyRenderID.Field(renderID),
		KeyField.Field(field),
		KeyPath.Field(path),
		KeyError.Field(err),
	)
}

// emitFieldSkipped emits an error event when a field is omitted from output.
func emitFieldSkipped(ctx context.Context, renderID, field, path string, err error) {
	capitan.Error(ctx, SignalFieldSkipped,
		KeyRenderID.Field(renderID),
		KeyField.Field(field),
		KeyPath.Field(path),
		KeyError.Field(err),
	)
}
