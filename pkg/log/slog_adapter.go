package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger. Useful during
// development to watch the command/response exchange on the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("size", event.Frame.Size),
			slog.String("data", string(event.Frame.Data)),
		)
		if event.Frame.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
	case event.Message != nil:
		attrs = append(attrs, slog.String("keyword", event.Message.Keyword))
		if event.Message.Address != "" {
			attrs = append(attrs, slog.String("address", event.Message.Address))
		}
		if event.Message.Value != nil {
			attrs = append(attrs, slog.Uint64("value", uint64(*event.Message.Value)))
		}
		if event.Message.Size != nil {
			attrs = append(attrs, slog.Uint64("read_size", uint64(*event.Message.Size)))
		}
		if event.Message.Product != "" {
			attrs = append(attrs,
				slog.String("product", event.Message.Product),
				slog.String("version", event.Message.ProductVersion),
			)
		}
		if event.Message.ErrorCode != nil {
			attrs = append(attrs, slog.Uint64("error_code", uint64(*event.Message.ErrorCode)))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error", event.Error.Message),
			slog.String("error_layer", event.Error.Layer.String()),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
