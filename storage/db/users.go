package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	userDomain "github.com/MEERAN2314/socialtab/user"
)

func (d *DBStore) AddUser(ctx context.Context, user *userDomain.User) error {
	if user == nil {
		return fmt.Errorf("nil user")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	sql, args, err := sq.Insert("users").
		Columns("id", "username", "email", "pin_hash", "full_name", "total_owed", "total_owing", "created_at").
		Values(user.ID, user.Username, user.Email, user.PinHash, user.FullName, user.TotalOwed, user.TotalOwing, user.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("generating insert SQL: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, sql, args...); err != nil {
		return newExecError("adding user", sql, err, args...)
	}

	return nil
}

func (d *DBStore) GetUserByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	return d.getUser(ctx, sq.Eq{"username": username}, username)
}

func (d *DBStore) GetUserByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	return d.getUser(ctx, sq.Eq{"email": email}, email)
}

func (d *DBStore) getUser(ctx context.Context, where sq.Eq, name string) (*userDomain.User, error) {
	query, args, err := sq.Select("*").From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating select SQL: %w", err)
	}

	user := &userDomain.User{}
	err = d.db.GetContext(ctx, user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &userDomain.ErrNotFound{Username: name}
	}
	if err != nil {
		return nil, newExecError("selecting user", query, err, args...)
	}

	return user, nil
}

func (d *DBStore) ListUsernames(ctx context.Context) ([]string, error) {
	query, args, err := sq.Select("username").From("users").OrderBy("username").ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating list SQL: %w", err)
	}

	usernames := []string{}
	if err = d.db.SelectContext(ctx, &usernames, query, args...); err != nil {
		return nil, newExecError("selecting usernames", query, err, args...)
	}

	return usernames, nil
}
