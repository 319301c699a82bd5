package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeDebtRequest      Type = "debt_request"
	TypeDebtAccepted     Type = "debt_accepted"
	TypeDebtDisputed     Type = "debt_disputed"
	TypePaymentRequest   Type = "payment_request"
	TypePaymentConfirmed Type = "payment_confirmed"
	TypeReminder         Type = "reminder"
)

// Notification is immutable once written except for the read flag.
type Notification struct {
	ID           string    `db:"id"`
	UserUsername string    `db:"user_username"`
	Type         Type      `db:"notification_type"`
	Title        string    `db:"title"`
	Message      string    `db:"message"`
	DebtID       string    `db:"debt_id"`
	ActionURL    string    `db:"action_url"`
	Read         bool      `db:"read"`
	CreatedAt    time.Time `db:"created_at"`
}

type Store interface {
	AddNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, username string, limit uint64) ([]*Notification, error)
	CountUnread(ctx context.Context, username string) (int, error)
	// MarkRead flips the read flag for the recipient's notification and
	// reports whether a row was actually updated.
	MarkRead(ctx context.Context, id, username string) (bool, error)
}

func New(username string, typ Type, title, message, debtID, actionURL string) *Notification {
	return &Notification{
		ID:           uuid.NewString(),
		UserUsername: username,
		Type:         typ,
		Title:        title,
		Message:      message,
		DebtID:       debtID,
		ActionURL:    actionURL,
		CreatedAt:    time.Now(),
	}
}
