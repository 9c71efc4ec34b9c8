package model_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportchat/model"
	"supportchat/platform"
)

func newTestStore(t *testing.T) *model.Store {
	t.Helper()
	db, err := platform.OpenDB(platform.DBConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "store.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := model.NewStore(db)
	require.NoError(t, store.Install())
	return store
}

func TestResolveSessionCreatesOnce(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, created, err := store.ResolveSession(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.ID.IsZero())
	assert.Equal(t, "u1", first.UserID)
	assert.False(t, first.CreatedAt.IsZero())

	second, created, err := store.ResolveSession(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	other, created, err := store.ResolveSession(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestResolveSessionConcurrentFirstContact(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[model.UUID]int{}
		creates int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, created, err := store.ResolveSession(ctx, "racer")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[session.ID]++
			if created {
				creates++
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, creates)

	stats, err := store.CountSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Sessions)
}

func TestFindSessionByUserNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FindSessionByUser(context.Background(), "nobody")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestCreateSessionDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.CreateSession(ctx, "u1")
	require.NoError(t, err)

	found, err := store.FindSessionByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = store.CreateSession(ctx, "u1")
	assert.ErrorIs(t, err, model.ErrSessionExists)
}

func TestAppendAndListMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session, _, err := store.ResolveSession(ctx, "u1")
	require.NoError(t, err)

	const exchanges = 3
	for i := 0; i < exchanges; i++ {
		_, err := store.AppendMessages(ctx, session.ID, []model.Turn{
			{Role: model.RoleUser, Content: fmt.Sprintf("question %d", i)},
			{Role: model.RoleBot, Content: fmt.Sprintf("answer %d", i)},
		})
		require.NoError(t, err)
	}

	messages, err := store.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2*exchanges)
	for i, m := range messages {
		assert.Equal(t, session.ID, m.SessionID)
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, m.Role)
			assert.Equal(t, fmt.Sprintf("question %d", i/2), m.Content)
		} else {
			assert.Equal(t, model.RoleBot, m.Role)
			assert.Equal(t, fmt.Sprintf("answer %d", i/2), m.Content)
		}
	}

	again, err := store.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Turns(messages), model.Turns(again))
}

func TestListRecentMessages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session, _, err := store.ResolveSession(ctx, "u1")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := store.AppendMessages(ctx, session.ID, []model.Turn{
			{Role: model.RoleUser, Content: fmt.Sprintf("q%d", i)},
			{Role: model.RoleBot, Content: fmt.Sprintf("a%d", i)},
		})
		require.NoError(t, err)
	}

	recent, err := store.ListRecentMessages(ctx, session.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, []model.Turn{
		{Role: model.RoleBot, Content: "a1"},
		{Role: model.RoleUser, Content: "q2"},
		{Role: model.RoleBot, Content: "a2"},
	}, model.Turns(recent))

	all, err := store.ListRecentMessages(ctx, session.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestListMessagesEmptySession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session, _, err := store.ResolveSession(ctx, "u1")
	require.NoError(t, err)

	messages, err := store.ListMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAppendMessagesUnknownSession(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AppendMessages(context.Background(), model.NewUUID(), []model.Turn{
		{Role: model.RoleUser, Content: "orphan"},
	})
	assert.Error(t, err)
}

func TestCountSince(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session, _, err := store.ResolveSession(ctx, "u1")
	require.NoError(t, err)
	_, err = store.AppendMessages(ctx, session.ID, []model.Turn{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleBot, Content: "hello"},
	})
	require.NoError(t, err)

	stats, err := store.CountSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Sessions)
	assert.EqualValues(t, 2, stats.Messages)

	stats, err = store.CountSince(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, stats.Sessions)
	assert.Zero(t, stats.Messages)
}
