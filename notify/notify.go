package notify

import (
	"context"
	"fmt"

	notificationDomain "github.com/MEERAN2314/socialtab/notification"
)

// Sink receives notification records produced by debt lifecycle
// transitions.
type Sink interface {
	Notify(ctx context.Context, n *notificationDomain.Notification) error
}

// StoreSink persists notifications in the notification store. It is the
// sink of record: every lifecycle transition writes through it.
type StoreSink struct {
	store notificationDomain.Store
}

func NewStoreSink(store notificationDomain.Store) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Notify(ctx context.Context, n *notificationDomain.Notification) error {
	if err := s.store.AddNotification(ctx, n); err != nil {
		return fmt.Errorf("add notification: %w", err)
	}
	return nil
}
