package deepclone

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for deepclone events.
var (
	SignalPlanBuilt     = capitan.NewSignal("deepclone.plan.built", "Reflection clone plan compiled")
	SignalGuardPoisoned = capitan.NewSignal("deepclone.guard.poisoned", "Guarded value poisoned by a panic")
	SignalGuardInvalid  = capitan.NewSignal("deepclone.guard.invalid", "Clone touched a poisoned guarded value")
	SignalCodecFailed   = capitan.NewSignal("deepclone.codec.failed", "Codec-backed clone failed")
)

// Keys for typed event data.
var (
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyContentType = capitan.NewStringKey("content_type")
	KeyOp          = capitan.NewStringKey("op")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitPlanBuilt emits an event when a reflection plan is compiled.
func emitPlanBuilt(ctx context.Context, typeName string, duration time.Duration) {
	capitan.Emit(ctx, SignalPlanBuilt,
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
	)
}

// emitGuardPoisoned emits an event when a panic poisons a guard.
func emitGuardPoisoned(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalGuardPoisoned,
		KeyTypeName.Field(typeName),
	)
}

// emitGuardInvalid emits an error event when a clone reaches a poisoned guard.
func emitGuardInvalid(ctx context.Context, typeName, op string, err error) {
	capitan.Error(ctx, SignalGuardInvalid,
		KeyTypeName.Field(typeName),
		KeyOp.Field(op),
		KeyError.Field(err),
	)
}

// emitCodecFailed emits an error event when a codec-backed clone fails.
func emitCodecFailed(ctx context.Context, contentType, op string, err error) {
	capitan.Error(ctx, SignalCodecFailed,
		KeyContentType.Field(contentType),
		KeyOp.Field(op),
		KeyError.Field(err),
	)
}
