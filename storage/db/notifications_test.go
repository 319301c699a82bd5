package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notificationDomain "github.com/MEERAN2314/socialtab/notification"
)

func TestAddListNotifications(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbTest := NewDBTest(t)
	t.Cleanup(func() {
		dbTest.Cleanup(t)
	})

	base := time.Now().Add(-time.Hour)
	ids := make([]string, 3)
	for i := 0; i < 3; i++ {
		n := notificationDomain.New("bob", notificationDomain.TypeDebtRequest, "New Debt Request", "you owe money", "debt-1", "/debts/debt-1")
		n.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, dbTest.db.AddNotification(ctx, n))
		ids[i] = n.ID
	}
	other := notificationDomain.New("alice", notificationDomain.TypeDebtAccepted, "Debt Accepted", "bob accepted", "debt-1", "")
	require.NoError(t, dbTest.db.AddNotification(ctx, other))

	// Newest first, scoped to the recipient.
	notifications, err := dbTest.db.ListNotifications(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, ids[2], notifications[0].ID)
	assert.Equal(t, ids[0], notifications[2].ID)
	assert.Equal(t, "/debts/debt-1", notifications[0].ActionURL)
	assert.False(t, notifications[0].Read)

	limited, err := dbTest.db.ListNotifications(ctx, "bob", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	empty, err := dbTest.db.ListNotifications(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCountUnreadAndMarkRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbTest := NewDBTest(t)
	t.Cleanup(func() {
		dbTest.Cleanup(t)
	})

	first := notificationDomain.New("bob", notificationDomain.TypeDebtRequest, "New Debt Request", "msg", "", "")
	second := notificationDomain.New("bob", notificationDomain.TypeReminder, "Debt Reminder", "msg", "", "")
	require.NoError(t, dbTest.db.AddNotification(ctx, first))
	require.NoError(t, dbTest.db.AddNotification(ctx, second))

	count, err := dbTest.db.CountUnread(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	updated, err := dbTest.db.MarkRead(ctx, first.ID, "bob")
	require.NoError(t, err)
	assert.True(t, updated)

	count, err = dbTest.db.CountUnread(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Marking again still matches the row, it is just already read.
	updated, err = dbTest.db.MarkRead(ctx, first.ID, "bob")
	require.NoError(t, err)
	assert.True(t, updated)

	// Wrong recipient or unknown ID updates nothing.
	updated, err = dbTest.db.MarkRead(ctx, second.ID, "alice")
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = dbTest.db.MarkRead(ctx, "no-such-id", "bob")
	require.NoError(t, err)
	assert.False(t, updated)
}
