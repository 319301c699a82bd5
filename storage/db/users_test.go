package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userDomain "github.com/MEERAN2314/socialtab/user"
)

func TestAddGetUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbTest := NewDBTest(t)
	t.Cleanup(func() {
		dbTest.Cleanup(t)
	})

	u := userDomain.NewUser("alice", "alice@example.com", "hashed-pin", "Alice Smith")
	require.NoError(t, dbTest.db.AddUser(ctx, u))

	byUsername, err := dbTest.db.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byUsername.ID)
	assert.Equal(t, "alice@example.com", byUsername.Email)
	assert.Equal(t, "Alice Smith", byUsername.FullName)
	assert.Equal(t, 0.0, byUsername.TotalOwed)
	assert.Equal(t, 0.0, byUsername.TotalOwing)

	byEmail, err := dbTest.db.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbTest := NewDBTest(t)
	t.Cleanup(func() {
		dbTest.Cleanup(t)
	})

	_, err := dbTest.db.GetUserByUsername(ctx, "nobody")
	var notFound *userDomain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nobody", notFound.Username)

	_, err = dbTest.db.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorAs(t, err, &notFound)
}

func TestAddUserDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbTest := NewDBTest(t)
	t.Cleanup(func() {
		dbTest.Cleanup(t)
	})

	require.NoError(t, dbTest.db.AddUser(ctx, userDomain.NewUser("alice", "alice@example.com", "hash", "")))

	err := dbTest.db.AddUser(ctx, userDomain.NewUser("alice", "other@example.com", "hash", ""))
	require.Error(t, err)

	var execErr *ExecError
	assert.ErrorAs(t, err, &execErr)
}

func TestListUsernames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dbTest := NewDBTest(t)
	t.Cleanup(func() {
		dbTest.Cleanup(t)
	})

	usernames, err := dbTest.db.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Empty(t, usernames)

	for _, username := range []string{"charlie", "alice", "bob"} {
		require.NoError(t, dbTest.db.AddUser(ctx, userDomain.NewUser(username, username+"@example.com", "hash", "")))
	}

	usernames, err = dbTest.db.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "charlie"}, usernames)
}
