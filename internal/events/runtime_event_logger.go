package events

import (
	"context"
	"encoding/json"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

func logRuntimeEvent(ctx context.Context, event AppEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		runtime.LogError(ctx, "events: failed to marshal event: "+err.Error())
		return
	}

	payload := string(data)

	switch event.Type {
	case EventError:
		runtime.LogError(ctx, payload)
	case EventWarn:
		runtime.LogWarning(ctx, payload)
	default:
		runtime.LogInfo(ctx, payload)
	}
}
