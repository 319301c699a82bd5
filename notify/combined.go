package notify

import (
	"context"
	"fmt"

	notificationDomain "github.com/MEERAN2314/socialtab/notification"
	"go.uber.org/zap"
)

// The CombinedSink fans a notification out to several sinks. The first
// sink is the sink of record and its error fails the call; the rest are
// best effort and only logged.
type CombinedSink struct {
	first  Sink
	rest   []Sink
	logger *zap.Logger
}

func NewPrioritizedSink(logger *zap.Logger, first Sink, rest ...Sink) *CombinedSink {
	return &CombinedSink{
		first:  first,
		rest:   rest,
		logger: logger,
	}
}

func (c *CombinedSink) Notify(ctx context.Context, n *notificationDomain.Notification) error {
	if err := c.first.Notify(ctx, n); err != nil {
		return fmt.Errorf("notifying sink of record: %w", err)
	}

	for _, sink := range c.rest {
		if err := sink.Notify(ctx, n); err != nil {
			c.logger.Warn("best effort notification sink failed",
				zap.String("notification_id", n.ID),
				zap.Error(err))
		}
	}
	return nil
}
