package debt

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusDisputed Status = "disputed"
	StatusPaid     Status = "paid"
	StatusArchived Status = "archived"
)

type Type string

const (
	TypeSingle Type = "single"
	TypeGroup  Type = "group"
)

// ExpiryDays is the dead man's switch window: pending debts older than
// this are eligible for archival.
const ExpiryDays = 90

const (
	DescriptionMinLen = 1
	DescriptionMaxLen = 200
)

type Participant struct {
	Username  string  `json:"username"`
	Amount    float64 `json:"amount"`
	Accepted  bool    `json:"accepted"`
	SplitType string  `json:"split_type,omitempty"`
}

// Participants is stored as a JSON column.
type Participants []Participant

func (p Participants) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal participants: %w", err)
	}
	return string(raw), nil
}

func (p *Participants) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported participants type %T", src)
	}
}

type Debt struct {
	ID               string       `db:"id"`
	CreditorUsername string       `db:"creditor_username"`
	CreditorID       string       `db:"creditor_id"`
	DebtorUsername   string       `db:"debtor_username"`
	DebtorID         string       `db:"debtor_id"`
	Amount           float64      `db:"amount"`
	Description      string       `db:"description"`
	Status           Status       `db:"status"`
	Type             Type         `db:"debt_type"`
	SplitPolicy      SplitPolicy  `db:"split_policy"`
	Participants     Participants `db:"participants"`
	DisputeReason    string       `db:"dispute_reason"`
	CreatedAt        time.Time    `db:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at"`
	PaidAt           *time.Time   `db:"paid_at"`
}

// Expired reports whether the debt is older than the dead man's switch
// window.
func (d *Debt) Expired(now time.Time) bool {
	return now.After(d.CreatedAt.AddDate(0, 0, ExpiryDays))
}

type ListFilter struct {
	CreditorUsername string
	DebtorUsername   string
	// Involving matches debts where the user is either side.
	Involving string
	Statuses  []Status
	// NewestFirst orders by updated time descending.
	NewestFirst bool
	Limit       uint64
}

// Transition is a status change applied atomically together with its
// balance deltas: BalanceDelta is added to the creditor's total_owed and
// to the debtor's total_owing in the same transaction as the status
// write.
type Transition struct {
	DebtID        string
	Status        Status
	DisputeReason string
	SetPaidAt     bool
	BalanceDelta  float64
	Now           time.Time
}

type Store interface {
	AddDebt(ctx context.Context, debt *Debt) error
	GetDebt(ctx context.Context, id string) (*Debt, error)
	ListDebts(ctx context.Context, filter ListFilter) ([]*Debt, error)
	CountDebts(ctx context.Context, filter ListFilter) (int, error)
	ApplyTransition(ctx context.Context, debt *Debt, t Transition) error
	TouchDebt(ctx context.Context, id string, now time.Time) error
	RemoveDebt(ctx context.Context, id string) error
}

func NewDebt(creditorUsername, creditorID, debtorUsername, debtorID, description string, amount float64, debtType Type) *Debt {
	now := time.Now()
	return &Debt{
		ID:               uuid.NewString(),
		CreditorUsername: creditorUsername,
		CreditorID:       creditorID,
		DebtorUsername:   debtorUsername,
		DebtorID:         debtorID,
		Amount:           Round2(amount),
		Description:      description,
		Status:           StatusPending,
		Type:             debtType,
		SplitPolicy:      SplitEqual,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
