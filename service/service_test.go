package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	debtDomain "github.com/MEERAN2314/socialtab/debt"
	notificationDomain "github.com/MEERAN2314/socialtab/notification"
	userDomain "github.com/MEERAN2314/socialtab/user"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*userDomain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*userDomain.User{}}
}

func (f *fakeUserStore) AddUser(_ context.Context, u *userDomain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *u
	f.users[u.Username] = &clone
	return nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*userDomain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, &userDomain.ErrNotFound{Username: username}
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*userDomain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, &userDomain.ErrNotFound{Username: email}
}

func (f *fakeUserStore) ListUsernames(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	usernames := make([]string, 0, len(f.users))
	for username := range f.users {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return usernames, nil
}

type fakeDebtStore struct {
	mu    sync.Mutex
	debts map[string]*debtDomain.Debt
	users *fakeUserStore
}

func newFakeDebtStore(users *fakeUserStore) *fakeDebtStore {
	return &fakeDebtStore{debts: map[string]*debtDomain.Debt{}, users: users}
}

func (f *fakeDebtStore) AddDebt(_ context.Context, d *debtDomain.Debt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *d
	f.debts[d.ID] = &clone
	return nil
}

func (f *fakeDebtStore) GetDebt(_ context.Context, id string) (*debtDomain.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.debts[id]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

func matchesFilter(d *debtDomain.Debt, filter debtDomain.ListFilter) bool {
	if filter.CreditorUsername != "" && d.CreditorUsername != filter.CreditorUsername {
		return false
	}
	if filter.DebtorUsername != "" && d.DebtorUsername != filter.DebtorUsername {
		return false
	}
	if filter.Involving != "" && d.CreditorUsername != filter.Involving && d.DebtorUsername != filter.Involving {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if d.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakeDebtStore) ListDebts(_ context.Context, filter debtDomain.ListFilter) ([]*debtDomain.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*debtDomain.Debt{}
	for _, d := range f.debts {
		if matchesFilter(d, filter) {
			clone := *d
			out = append(out, &clone)
		}
	}
	if filter.NewestFirst {
		sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	}
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeDebtStore) CountDebts(ctx context.Context, filter debtDomain.ListFilter) (int, error) {
	debts, err := f.ListDebts(ctx, filter)
	return len(debts), err
}

func (f *fakeDebtStore) ApplyTransition(_ context.Context, d *debtDomain.Debt, t debtDomain.Transition) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.debts[t.DebtID]
	if !ok {
		return &userDomain.ErrNotFound{Username: t.DebtID}
	}

	apply := func(target *debtDomain.Debt) {
		target.Status = t.Status
		target.UpdatedAt = t.Now
		if t.Status == debtDomain.StatusDisputed {
			target.DisputeReason = t.DisputeReason
		}
		if t.SetPaidAt {
			paidAt := t.Now
			target.PaidAt = &paidAt
		}
	}
	apply(stored)
	apply(d)

	if t.BalanceDelta != 0 {
		f.users.mu.Lock()
		if creditor, ok := f.users.users[d.CreditorUsername]; ok {
			creditor.TotalOwed += t.BalanceDelta
		}
		if debtor, ok := f.users.users[d.DebtorUsername]; ok {
			debtor.TotalOwing += t.BalanceDelta
		}
		f.users.mu.Unlock()
	}
	return nil
}

func (f *fakeDebtStore) TouchDebt(_ context.Context, id string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.debts[id]; ok {
		d.UpdatedAt = now
	}
	return nil
}

func (f *fakeDebtStore) RemoveDebt(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.debts, id)
	return nil
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []*notificationDomain.Notification
}

func (f *fakeNotificationStore) AddNotification(_ context.Context, n *notificationDomain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *n
	f.notifications = append(f.notifications, &clone)
	return nil
}

func (f *fakeNotificationStore) ListNotifications(_ context.Context, username string, limit uint64) ([]*notificationDomain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*notificationDomain.Notification{}
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].UserUsername != username {
			continue
		}
		clone := *f.notifications[i]
		out = append(out, &clone)
		if limit > 0 && uint64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) CountUnread(_ context.Context, username string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.notifications {
		if n.UserUsername == username && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.UserUsername == username {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationStore) lastFor(username string) *notificationDomain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].UserUsername == username {
			return f.notifications[i]
		}
	}
	return nil
}

type testEnv struct {
	svc           *Service
	users         *fakeUserStore
	debts         *fakeDebtStore
	notifications *fakeNotificationStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUserStore()
	debts := newFakeDebtStore(users)
	notifications := &fakeNotificationStore{}

	svc := New(Config{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		RemindAfter: 72 * time.Hour,
	}, zap.NewNop(), users, debts, notifications, nil)

	return &testEnv{svc: svc, users: users, debts: debts, notifications: notifications}
}

func (e *testEnv) seedUser(t *testing.T, username string) *userDomain.User {
	t.Helper()
	u := userDomain.NewUser(username, username+"@example.com", "hash", "")
	require.NoError(t, e.users.AddUser(context.Background(), u))
	return u
}

func (e *testEnv) balances(t *testing.T, username string) (owed, owing float64) {
	t.Helper()
	u, err := e.users.GetUserByUsername(context.Background(), username)
	require.NoError(t, err)
	return u.TotalOwed, u.TotalOwing
}
