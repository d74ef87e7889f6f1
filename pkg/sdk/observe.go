package contactsearch

import (
	"log/slog"
	"time"
)

// observer provides structured logging for client operations.
type observer struct {
	logger *slog.Logger
}

func newObserver(logger *slog.Logger) *observer {
	return &observer{logger: logger}
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil || o.logger == nil {
		return
	}
	dur := time.Since(start)

	if err != nil {
		o.logger.Warn("operation failed",
			"op", op,
			"duration", dur,
			"error", err,
		)
		return
	}
	o.logger.Debug("operation completed",
		"op", op,
		"duration", dur,
	)
}
