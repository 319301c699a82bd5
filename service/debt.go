package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	debtDomain "github.com/MEERAN2314/socialtab/debt"
	notificationDomain "github.com/MEERAN2314/socialtab/notification"
	userDomain "github.com/MEERAN2314/socialtab/user"
)

type CreateDebtRequest struct {
	DebtorUsername string
	Amount         float64
	Description    string
	Type           debtDomain.Type
	SplitPolicy    debtDomain.SplitPolicy
	Participants   []debtDomain.Participant
}

// DebtList is the my-debts view: open debts from both sides plus
// active-only totals. Pending debts are listed but excluded from the
// totals since no balance has been applied for them yet.
type DebtList struct {
	OwedToMe      []*debtDomain.Debt
	IOwe          []*debtDomain.Debt
	TotalOwedToMe float64
	TotalIOwe     float64
}

func (s *Service) CreateDebt(ctx context.Context, creditorUsername string, req CreateDebtRequest) (*debtDomain.Debt, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}
	if len(req.Description) < debtDomain.DescriptionMinLen || len(req.Description) > debtDomain.DescriptionMaxLen {
		return nil, fmt.Errorf("%w: description must be %d-%d characters", ErrInvalidArgument, debtDomain.DescriptionMinLen, debtDomain.DescriptionMaxLen)
	}

	debtorUsername := userDomain.Normalize(req.DebtorUsername)
	debtor, err := s.userStore.GetUserByUsername(ctx, debtorUsername)
	if err != nil {
		if isUserNotFound(err) {
			return nil, fmt.Errorf("%w: debtor user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("get debtor: %w", err)
	}
	if debtorUsername == creditorUsername {
		return nil, fmt.Errorf("%w: cannot create debt to yourself", ErrInvalidArgument)
	}

	creditor, err := s.userStore.GetUserByUsername(ctx, creditorUsername)
	if err != nil {
		return nil, fmt.Errorf("get creditor: %w", err)
	}

	debtType := req.Type
	if debtType == "" {
		debtType = debtDomain.TypeSingle
	}

	d := debtDomain.NewDebt(creditor.Username, creditor.ID, debtor.Username, debtor.ID, req.Description, req.Amount, debtType)

	if debtType == debtDomain.TypeGroup && len(req.Participants) > 0 {
		policy := splitPolicyFor(req)
		participants, err := debtDomain.Split(d.Amount, policy, req.Participants)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err.Error())
		}
		d.SplitPolicy = policy
		d.Participants = participants
	}

	if err := s.debtStore.AddDebt(ctx, d); err != nil {
		return nil, fmt.Errorf("add debt: %w", err)
	}
	debtTransitions.WithLabelValues("create").Inc()

	err = s.emit(ctx, d.DebtorUsername, notificationDomain.TypeDebtRequest, "New Debt Request", "debt_request",
		messageData{Creditor: d.CreditorUsername, Amount: d.Amount, Description: d.Description},
		d.ID, fmt.Sprintf("/debts/%s", d.ID))
	if err != nil {
		return nil, err
	}

	return d, nil
}

// DebtAction applies a debtor-side lifecycle action. The action set is
// closed; adding a new action means adding a case here.
func (s *Service) DebtAction(ctx context.Context, debtID, actor string, action debtDomain.Action) (*debtDomain.Debt, error) {
	d, err := s.loadDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	switch action.Kind {
	case debtDomain.ActionAccept:
		return s.accept(ctx, d, actor)
	case debtDomain.ActionDispute:
		return s.dispute(ctx, d, actor, action.Reason)
	case debtDomain.ActionMarkPaid:
		return s.markPaid(ctx, d, actor)
	case debtDomain.ActionConfirmPaid:
		// Named in the action vocabulary but has no transition yet;
		// refresh the updated timestamp only.
		now := time.Now()
		if err := s.debtStore.TouchDebt(ctx, d.ID, now); err != nil {
			return nil, fmt.Errorf("touch debt: %w", err)
		}
		d.UpdatedAt = now
		return d, nil
	default:
		return nil, fmt.Errorf("%w: unknown action", ErrInvalidArgument)
	}
}

func (s *Service) accept(ctx context.Context, d *debtDomain.Debt, actor string) (*debtDomain.Debt, error) {
	if d.DebtorUsername != actor {
		return nil, fmt.Errorf("%w: only debtor can accept", ErrForbidden)
	}
	if d.Status != debtDomain.StatusPending {
		return nil, fmt.Errorf("%w: debt is not pending", ErrInvalidState)
	}

	if err := s.applyTransition(ctx, d, debtDomain.Transition{
		DebtID:       d.ID,
		Status:       debtDomain.StatusActive,
		BalanceDelta: d.Amount,
		Now:          time.Now(),
	}, "accept"); err != nil {
		return nil, err
	}

	err := s.emit(ctx, d.CreditorUsername, notificationDomain.TypeDebtAccepted, "Debt Accepted", "debt_accepted",
		messageData{Actor: actor, Amount: d.Amount}, d.ID, "")
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) dispute(ctx context.Context, d *debtDomain.Debt, actor, reason string) (*debtDomain.Debt, error) {
	if d.DebtorUsername != actor {
		return nil, fmt.Errorf("%w: only debtor can dispute", ErrForbidden)
	}
	// No status precondition: a dispute is allowed from any status and
	// never touches balances.

	if err := s.applyTransition(ctx, d, debtDomain.Transition{
		DebtID:        d.ID,
		Status:        debtDomain.StatusDisputed,
		DisputeReason: reason,
		Now:           time.Now(),
	}, "dispute"); err != nil {
		return nil, err
	}

	err := s.emit(ctx, d.CreditorUsername, notificationDomain.TypeDebtDisputed, "Debt Disputed", "debt_disputed",
		messageData{Actor: actor, Reason: reason}, d.ID, "")
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) markPaid(ctx context.Context, d *debtDomain.Debt, actor string) (*debtDomain.Debt, error) {
	if d.DebtorUsername != actor {
		return nil, fmt.Errorf("%w: only debtor can mark as paid", ErrForbidden)
	}
	if d.Status != debtDomain.StatusActive {
		return nil, fmt.Errorf("%w: debt is not active", ErrInvalidState)
	}

	if err := s.applyTransition(ctx, d, debtDomain.Transition{
		DebtID:       d.ID,
		Status:       debtDomain.StatusPaid,
		SetPaidAt:    true,
		BalanceDelta: -d.Amount,
		Now:          time.Now(),
	}, "mark_paid"); err != nil {
		return nil, err
	}

	err := s.emit(ctx, d.CreditorUsername, notificationDomain.TypePaymentConfirmed, "Payment Made", "payment_confirmed",
		messageData{Actor: actor, Amount: d.Amount}, d.ID, "")
	if err != nil {
		return nil, err
	}
	return d, nil
}

// applyTransition writes the status change and its balance deltas in one
// transaction and mirrors the result onto the in-memory debt.
func (s *Service) applyTransition(ctx context.Context, d *debtDomain.Debt, t debtDomain.Transition, action string) error {
	if err := s.debtStore.ApplyTransition(ctx, d, t); err != nil {
		return fmt.Errorf("apply %s transition: %w", action, err)
	}
	debtTransitions.WithLabelValues(action).Inc()
	s.logger.Info("debt transition applied",
		zap.String("debt_id", d.ID),
		zap.String("action", action),
		zap.String("status", string(t.Status)))
	return nil
}

func (s *Service) DeleteDebt(ctx context.Context, debtID, actor string) error {
	d, err := s.loadDebt(ctx, debtID)
	if err != nil {
		return err
	}

	if d.CreditorUsername != actor {
		return fmt.Errorf("%w: only creditor can delete", ErrForbidden)
	}
	if d.Status != debtDomain.StatusPending {
		return fmt.Errorf("%w: can only delete pending debts", ErrInvalidState)
	}

	if err := s.debtStore.RemoveDebt(ctx, d.ID); err != nil {
		return fmt.Errorf("remove debt: %w", err)
	}
	debtTransitions.WithLabelValues("delete").Inc()
	return nil
}

func (s *Service) GetDebt(ctx context.Context, debtID, actor string) (*debtDomain.Debt, error) {
	d, err := s.loadDebt(ctx, debtID)
	if err != nil {
		return nil, err
	}

	if d.CreditorUsername != actor && d.DebtorUsername != actor {
		return nil, fmt.Errorf("%w: not authorized to view this debt", ErrForbidden)
	}
	return d, nil
}

func (s *Service) ListForUser(ctx context.Context, username string) (*DebtList, error) {
	openStatuses := []debtDomain.Status{debtDomain.StatusPending, debtDomain.StatusActive}

	owedToMe, err := s.debtStore.ListDebts(ctx, debtDomain.ListFilter{
		CreditorUsername: username,
		Statuses:         openStatuses,
		Limit:            OpenDebtsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list owed to me: %w", err)
	}

	iOwe, err := s.debtStore.ListDebts(ctx, debtDomain.ListFilter{
		DebtorUsername: username,
		Statuses:       openStatuses,
		Limit:          OpenDebtsLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list i owe: %w", err)
	}

	list := &DebtList{OwedToMe: owedToMe, IOwe: iOwe}
	for _, d := range owedToMe {
		if d.Status == debtDomain.StatusActive {
			list.TotalOwedToMe += d.Amount
		}
	}
	for _, d := range iOwe {
		if d.Status == debtDomain.StatusActive {
			list.TotalIOwe += d.Amount
		}
	}
	return list, nil
}

func (s *Service) ListHistory(ctx context.Context, username string) ([]*debtDomain.Debt, error) {
	history, err := s.debtStore.ListDebts(ctx, debtDomain.ListFilter{
		Involving:   username,
		Statuses:    []debtDomain.Status{debtDomain.StatusPaid, debtDomain.StatusArchived},
		NewestFirst: true,
		Limit:       HistoryLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return history, nil
}

func (s *Service) loadDebt(ctx context.Context, debtID string) (*debtDomain.Debt, error) {
	if _, err := uuid.Parse(debtID); err != nil {
		return nil, fmt.Errorf("%w: invalid debt ID", ErrInvalidArgument)
	}

	d, err := s.debtStore.GetDebt(ctx, debtID)
	if err != nil {
		return nil, fmt.Errorf("get debt: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: debt not found", ErrNotFound)
	}
	return d, nil
}

func splitPolicyFor(req CreateDebtRequest) debtDomain.SplitPolicy {
	if req.SplitPolicy != "" {
		return req.SplitPolicy
	}
	// Back-compat with older clients that declared the mode on the first
	// participant entry.
	if len(req.Participants) > 0 && req.Participants[0].SplitType != "" {
		return debtDomain.SplitPolicy(req.Participants[0].SplitType)
	}
	return debtDomain.SplitEqual
}
