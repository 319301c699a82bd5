package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	debtDomain "github.com/MEERAN2314/socialtab/debt"
	notificationDomain "github.com/MEERAN2314/socialtab/notification"
)

// ReminderWorker periodically reminds debtors about stale active debts
// and archives pending debts past the expiry window. It blocks until ctx
// is cancelled; an interval of zero disables it.
func (s *Service) ReminderWorker(ctx context.Context) {
	if s.cfg.ReminderInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepDebts(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) sweepDebts(ctx context.Context) {
	now := time.Now()

	pending, err := s.debtStore.ListDebts(ctx, debtDomain.ListFilter{
		Statuses: []debtDomain.Status{debtDomain.StatusPending},
	})
	if err != nil {
		s.logger.Error("listing pending debts for sweep", zap.Error(err))
	} else {
		for _, d := range pending {
			if !d.Expired(now) {
				continue
			}
			// Expired pending debts never touched balances, archiving is
			// status-only.
			if err := s.applyTransition(ctx, d, debtDomain.Transition{
				DebtID: d.ID,
				Status: debtDomain.StatusArchived,
				Now:    now,
			}, "archive"); err != nil {
				s.logger.Error("archiving expired debt", zap.String("debt_id", d.ID), zap.Error(err))
			}
		}
	}

	active, err := s.debtStore.ListDebts(ctx, debtDomain.ListFilter{
		Statuses: []debtDomain.Status{debtDomain.StatusActive},
	})
	if err != nil {
		s.logger.Error("listing active debts for sweep", zap.Error(err))
		return
	}

	for _, d := range active {
		if now.Sub(d.UpdatedAt) < s.cfg.RemindAfter {
			continue
		}
		if err := s.remindDebt(ctx, d); err != nil {
			s.logger.Error("reminding about debt", zap.String("debt_id", d.ID), zap.Error(err))
		}
	}
}

func (s *Service) remindDebt(ctx context.Context, d *debtDomain.Debt) error {
	return s.emit(ctx, d.DebtorUsername, notificationDomain.TypeReminder, "Debt Reminder", "reminder",
		messageData{Creditor: d.CreditorUsername, Amount: d.Amount, Description: d.Description},
		d.ID, "")
}
