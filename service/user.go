package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	debtDomain "github.com/MEERAN2314/socialtab/debt"
	notificationDomain "github.com/MEERAN2314/socialtab/notification"
	userDomain "github.com/MEERAN2314/socialtab/user"
)

const (
	FuzzyLimit        = 5
	FuzzyMinimumScore = 75
)

type SearchResult struct {
	Username string
	FullName string
	Exists   bool
	// Suggestions holds close username matches when the exact lookup
	// missed.
	Suggestions []string
}

type UserStats struct {
	TotalDebtsCreated  int
	TotalDebtsReceived int
	ActiveDebts        int
	PaidDebts          int
	TotalOwedToMe      float64
	TotalIOwe          float64
	NetBalance         float64
}

type NotificationList struct {
	Notifications []*notificationDomain.Notification
	UnreadCount   int
}

func (s *Service) Profile(ctx context.Context, username string) (*userDomain.User, error) {
	u, err := s.userStore.GetUserByUsername(ctx, username)
	if err != nil {
		if isUserNotFound(err) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SearchUser looks a username up exactly; on a miss it fuzzy-matches the
// known usernames and returns the closest ones as suggestions.
func (s *Service) SearchUser(ctx context.Context, username string) (*SearchResult, error) {
	normalized := userDomain.Normalize(username)

	u, err := s.userStore.GetUserByUsername(ctx, normalized)
	if err == nil {
		return &SearchResult{Username: u.Username, FullName: u.FullName, Exists: true}, nil
	}
	if !isUserNotFound(err) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	usernames, err := s.userStore.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list usernames: %w", err)
	}

	result := &SearchResult{Username: normalized}
	if len(usernames) == 0 {
		return result, nil
	}

	findings, err := fuzzy.Extract(normalized, usernames, FuzzyLimit, FuzzyMinimumScore, fuzzy.UQRatio)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search: %w", err)
	}
	for _, finding := range findings {
		result.Suggestions = append(result.Suggestions, finding.Match)
	}
	return result, nil
}

func (s *Service) Stats(ctx context.Context, username string) (*UserStats, error) {
	created, err := s.debtStore.CountDebts(ctx, debtDomain.ListFilter{CreditorUsername: username})
	if err != nil {
		return nil, fmt.Errorf("count created debts: %w", err)
	}
	received, err := s.debtStore.CountDebts(ctx, debtDomain.ListFilter{DebtorUsername: username})
	if err != nil {
		return nil, fmt.Errorf("count received debts: %w", err)
	}
	active, err := s.debtStore.CountDebts(ctx, debtDomain.ListFilter{
		Involving: username,
		Statuses:  []debtDomain.Status{debtDomain.StatusActive},
	})
	if err != nil {
		return nil, fmt.Errorf("count active debts: %w", err)
	}
	paid, err := s.debtStore.CountDebts(ctx, debtDomain.ListFilter{
		Involving: username,
		Statuses:  []debtDomain.Status{debtDomain.StatusPaid},
	})
	if err != nil {
		return nil, fmt.Errorf("count paid debts: %w", err)
	}

	u, err := s.Profile(ctx, username)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TotalDebtsCreated:  created,
		TotalDebtsReceived: received,
		ActiveDebts:        active,
		PaidDebts:          paid,
		TotalOwedToMe:      u.TotalOwed,
		TotalIOwe:          u.TotalOwing,
		NetBalance:         u.TotalOwed - u.TotalOwing,
	}, nil
}

func (s *Service) Notifications(ctx context.Context, username string) (*NotificationList, error) {
	notifications, err := s.notificationStore.ListNotifications(ctx, username, NotificationsLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	unread, err := s.notificationStore.CountUnread(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, id, username string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid notification ID", ErrInvalidArgument)
	}

	updated, err := s.notificationStore.MarkRead(ctx, id, username)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if !updated {
		return fmt.Errorf("%w: notification not found", ErrNotFound)
	}
	return nil
}
