package db

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	notificationDomain "github.com/MEERAN2314/socialtab/notification"
)

func (d *DBStore) AddNotification(ctx context.Context, n *notificationDomain.Notification) error {
	if n == nil {
		return fmt.Errorf("nil notification")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	query, args, err := sq.Insert("notifications").
		Columns("id", "user_username", "notification_type", "title", "message", "debt_id", "action_url", "read", "created_at").
		Values(n.ID, n.UserUsername, n.Type, n.Title, n.Message, n.DebtID, n.ActionURL, n.Read, n.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("generating insert SQL: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return newExecError("adding notification", query, err, args...)
	}
	return nil
}

func (d *DBStore) ListNotifications(ctx context.Context, username string, limit uint64) ([]*notificationDomain.Notification, error) {
	baseSql := sq.Select("*").From("notifications").
		Where(sq.Eq{"user_username": username}).
		OrderBy("created_at DESC")
	if limit > 0 {
		baseSql = baseSql.Limit(limit)
	}

	query, args, err := baseSql.ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating list SQL: %w", err)
	}

	notifications := []*notificationDomain.Notification{}
	if err = d.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, newExecError("selecting notifications", query, err, args...)
	}

	return notifications, nil
}

func (d *DBStore) CountUnread(ctx context.Context, username string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("notifications").
		Where(sq.Eq{"user_username": username, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("generating count SQL: %w", err)
	}

	var count int
	if err = d.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, newExecError("counting unread notifications", query, err, args...)
	}

	return count, nil
}

func (d *DBStore) MarkRead(ctx context.Context, id, username string) (bool, error) {
	query, args, err := sq.Update("notifications").
		Set("read", true).
		Where(sq.Eq{"id": id, "user_username": username}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("generating update SQL: %w", err)
	}

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, newExecError("marking notification read", query, err, args...)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
