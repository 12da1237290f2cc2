package board

import "log/slog"

// NotificationSink receives user-facing failure messages. Formatting and
// presentation are up to the sink.
type NotificationSink interface {
	Notify(message string)
}

// SinkFunc adapts a plain function to NotificationSink.
type SinkFunc func(message string)

func (f SinkFunc) Notify(message string) { f(message) }

// LogSink writes notifications to a structured logger at warn level.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Notify(message string) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("board notification", slog.String("message", message))
}
