package logging

import "log/slog"

// Domain identifiers

func User(id string) slog.Attr {
	return slog.String("user_id", id)
}

func Recipient(id string) slog.Attr {
	return slog.String("recipient_id", id)
}

func Sender(id string) slog.Attr {
	return slog.String("sender_id", id)
}

func Connection(id string) slog.Attr {
	return slog.String("connection_id", id)
}

func NotificationID(id string) slog.Attr {
	return slog.String("notification_id", id)
}

// Request / tracing

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

func TraceID(id string) slog.Attr {
	return slog.String("trace_id", id)
}

// Error handling

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
