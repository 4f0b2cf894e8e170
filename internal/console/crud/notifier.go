package crud

import (
	"context"

	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

// LogNotifier routes outcome toasts to the structured log. Headless runs
// and tests use it in place of a UI notifier.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (n *LogNotifier) Success(ctx context.Context, message string) {
	if n == nil || n.logg == nil {
		return
	}
	n.logg.Info(ctx, message)
}

func (n *LogNotifier) Error(ctx context.Context, message string) {
	if n == nil || n.logg == nil {
		return
	}
	n.logg.Warn(ctx, message)
}
