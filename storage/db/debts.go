package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	debtDomain "github.com/MEERAN2314/socialtab/debt"
)

func (d *DBStore) AddDebt(ctx context.Context, debt *debtDomain.Debt) error {
	if debt == nil {
		return fmt.Errorf("nil debt")
	}
	if debt.ID == "" {
		debt.ID = uuid.NewString()
	}
	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = time.Now()
		debt.UpdatedAt = debt.CreatedAt
	}

	query, args, err := sq.Insert("debts").
		Columns("id", "creditor_username", "creditor_id", "debtor_username", "debtor_id",
			"amount", "description", "status", "debt_type", "split_policy", "participants",
			"dispute_reason", "created_at", "updated_at", "paid_at").
		Values(debt.ID, debt.CreditorUsername, debt.CreditorID, debt.DebtorUsername, debt.DebtorID,
			debt.Amount, debt.Description, debt.Status, debt.Type, debt.SplitPolicy, debt.Participants,
			debt.DisputeReason, debt.CreatedAt, debt.UpdatedAt, debt.PaidAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("generating insert SQL: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return newExecError("adding debt", query, err, args...)
	}
	return nil
}

func (d *DBStore) GetDebt(ctx context.Context, id string) (*debtDomain.Debt, error) {
	query, args, err := sq.Select("*").From("debts").Where("id=?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating select SQL: %w", err)
	}

	debt := &debtDomain.Debt{}
	err = d.db.GetContext(ctx, debt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, newExecError("selecting debt", query, err, args...)
	}

	return debt, nil
}

func debtFilterToWhere(filter debtDomain.ListFilter) sq.And {
	where := sq.And{}
	if filter.CreditorUsername != "" {
		where = append(where, sq.Eq{"creditor_username": filter.CreditorUsername})
	}
	if filter.DebtorUsername != "" {
		where = append(where, sq.Eq{"debtor_username": filter.DebtorUsername})
	}
	if filter.Involving != "" {
		where = append(where, sq.Or{
			sq.Eq{"creditor_username": filter.Involving},
			sq.Eq{"debtor_username": filter.Involving},
		})
	}
	if len(filter.Statuses) > 0 {
		where = append(where, sq.Eq{"status": filter.Statuses})
	}
	return where
}

func (d *DBStore) ListDebts(ctx context.Context, filter debtDomain.ListFilter) ([]*debtDomain.Debt, error) {
	baseSql := sq.Select("*").From("debts")
	if where := debtFilterToWhere(filter); len(where) > 0 {
		baseSql = baseSql.Where(where)
	}
	if filter.NewestFirst {
		baseSql = baseSql.OrderBy("updated_at DESC")
	} else {
		baseSql = baseSql.OrderBy("created_at")
	}
	if filter.Limit > 0 {
		baseSql = baseSql.Limit(filter.Limit)
	}

	query, args, err := baseSql.ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating list SQL: %w", err)
	}

	debts := []*debtDomain.Debt{}
	if err = d.db.SelectContext(ctx, &debts, query, args...); err != nil {
		return nil, newExecError("selecting debts", query, err, args...)
	}

	return debts, nil
}

func (d *DBStore) CountDebts(ctx context.Context, filter debtDomain.ListFilter) (int, error) {
	baseSql := sq.Select("COUNT(*)").From("debts")
	if where := debtFilterToWhere(filter); len(where) > 0 {
		baseSql = baseSql.Where(where)
	}

	query, args, err := baseSql.ToSql()
	if err != nil {
		return 0, fmt.Errorf("generating count SQL: %w", err)
	}

	var count int
	if err = d.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, newExecError("counting debts", query, err, args...)
	}

	return count, nil
}

// ApplyTransition writes the status change and the two balance
// increments in a single transaction, so a crash between steps cannot
// leave balances inconsistent with the debt status. On success the
// in-memory debt is updated to match.
func (d *DBStore) ApplyTransition(ctx context.Context, debt *debtDomain.Debt, t debtDomain.Transition) error {
	if debt == nil || debt.ID != t.DebtID {
		return fmt.Errorf("transition debt mismatch")
	}

	update := sq.Update("debts").
		Set("status", t.Status).
		Set("updated_at", t.Now).
		Where("id=?", t.DebtID)
	if t.Status == debtDomain.StatusDisputed {
		update = update.Set("dispute_reason", t.DisputeReason)
	}
	if t.SetPaidAt {
		update = update.Set("paid_at", t.Now)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("generating update SQL: %w", err)
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return newExecError("updating debt status", query, err, args...)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("debt %s not found for transition", t.DebtID)
	}

	if t.BalanceDelta != 0 {
		if err := incrementBalance(ctx, tx, "total_owed", debt.CreditorUsername, t.BalanceDelta); err != nil {
			return err
		}
		if err := incrementBalance(ctx, tx, "total_owing", debt.DebtorUsername, t.BalanceDelta); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}

	debt.Status = t.Status
	debt.UpdatedAt = t.Now
	if t.Status == debtDomain.StatusDisputed {
		debt.DisputeReason = t.DisputeReason
	}
	if t.SetPaidAt {
		paidAt := t.Now
		debt.PaidAt = &paidAt
	}
	return nil
}

func incrementBalance(ctx context.Context, tx sq.ExecerContext, column, username string, delta float64) error {
	query := fmt.Sprintf("UPDATE users SET %s = ROUND(%s + ?, 2) WHERE username = ?", column, column)
	if _, err := tx.ExecContext(ctx, query, delta, username); err != nil {
		return newExecError("incrementing balance", query, err, delta, username)
	}
	return nil
}

func (d *DBStore) TouchDebt(ctx context.Context, id string, now time.Time) error {
	query, args, err := sq.Update("debts").Set("updated_at", now).Where("id=?", id).ToSql()
	if err != nil {
		return fmt.Errorf("generating update SQL: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return newExecError("touching debt", query, err, args...)
	}
	return nil
}

func (d *DBStore) RemoveDebt(ctx context.Context, id string) error {
	query, args, err := sq.Delete("debts").Where("id=?", id).ToSql()
	if err != nil {
		return fmt.Errorf("generating delete SQL: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return newExecError("deleting debt", query, err, args...)
	}

	return nil
}
