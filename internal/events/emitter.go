package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Emit dispatches an event to the frontend. It defaults to a no-op so services
// can emit unconditionally; main enables the runtime emitter once a wails
// context exists, and tests may install a capturing emitter.
var Emit = func(ctx context.Context, name string, evt AppEvent) {}

func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt AppEvent) {
		runtime.EventsEmit(ctx, name, evt)
		logRuntimeEvent(ctx, evt)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt AppEvent)) {
	if f == nil {
		Emit = func(context.Context, string, AppEvent) {}
		return
	}
	Emit = f
}
