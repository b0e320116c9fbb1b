package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messagely/messaging-system/internal/core/domain"
)

func seedUsers(t *testing.T, s *Store, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := s.Users().Create(context.Background(), &domain.User{Username: n, JoinAt: time.Now()})
		require.NoError(t, err)
	}
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test1")

	_, err := s.Users().Create(context.Background(), &domain.User{Username: "test1"})
	assert.True(t, errors.Is(err, domain.ErrUserExists))

	users, err := s.Users().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepository_ListOrdered(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test2", "alice", "test1")

	users, err := s.Users().List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "test1", users[1].Username)
	assert.Equal(t, "test2", users[2].Username)
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test1")

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Users().UpdateLastLogin(context.Background(), "test1", at))

	u, err := s.Users().FindByUsername(context.Background(), "test1")
	require.NoError(t, err)
	require.NotNil(t, u.LastLoginAt)
	assert.True(t, u.LastLoginAt.Equal(at))

	err = s.Users().UpdateLastLogin(context.Background(), "ghost", at)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test1")

	u, _ := s.Users().FindByUsername(context.Background(), "test1")
	u.FirstName = "mutated"

	again, _ := s.Users().FindByUsername(context.Background(), "test1")
	assert.Empty(t, again.FirstName)
}

func TestMessageRepository_CreateAssignsSequentialIDs(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test1", "test2")

	m1, err := s.Messages().Create(context.Background(), &domain.Message{FromUsername: "test1", ToUsername: "test2", Body: "a"})
	require.NoError(t, err)
	m2, err := s.Messages().Create(context.Background(), &domain.Message{FromUsername: "test2", ToUsername: "test1", Body: "b"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), m1.ID)
	assert.Equal(t, int64(2), m2.ID)
	assert.Nil(t, m1.ReadAt)
}

func TestMessageRepository_CreateUnknownParticipant(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test1")

	_, err := s.Messages().Create(context.Background(), &domain.Message{FromUsername: "test1", ToUsername: "ghost", Body: "a"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestMessageRepository_MarkReadOnce(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test1", "test2")
	m, _ := s.Messages().Create(context.Background(), &domain.Message{FromUsername: "test1", ToUsername: "test2", Body: "a"})

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	read, err := s.Messages().MarkRead(context.Background(), m.ID, first)
	require.NoError(t, err)
	assert.True(t, read.ReadAt.Equal(first))

	read, err = s.Messages().MarkRead(context.Background(), m.ID, first.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, read.ReadAt.Equal(first))

	_, err = s.Messages().MarkRead(context.Background(), 99, first)
	assert.True(t, errors.Is(err, domain.ErrMessageNotFound))
}

func TestMessageRepository_ListToFrom(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test1", "test2", "test3")
	ctx := context.Background()
	_, _ = s.Messages().Create(ctx, &domain.Message{FromUsername: "test1", ToUsername: "test2", Body: "a"})
	_, _ = s.Messages().Create(ctx, &domain.Message{FromUsername: "test3", ToUsername: "test2", Body: "b"})
	_, _ = s.Messages().Create(ctx, &domain.Message{FromUsername: "test2", ToUsername: "test1", Body: "c"})

	to, err := s.Messages().ListTo(ctx, "test2")
	require.NoError(t, err)
	require.Len(t, to, 2)
	assert.Equal(t, "a", to[0].Body)
	assert.Equal(t, "b", to[1].Body)

	from, err := s.Messages().ListFrom(ctx, "test2")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "c", from[0].Body)
}

func TestMessageRepository_ConcurrentMarkRead(t *testing.T) {
	s := NewStore()
	seedUsers(t, s, "test1", "test2")
	m, _ := s.Messages().Create(context.Background(), &domain.Message{FromUsername: "test1", ToUsername: "test2", Body: "a"})

	var wg sync.WaitGroup
	results := make([]time.Time, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			read, err := s.Messages().MarkRead(context.Background(), m.ID, time.Now().Add(time.Duration(i)*time.Minute))
			if err == nil {
				results[i] = *read.ReadAt
			}
		}(i)
	}
	wg.Wait()

	for _, at := range results[1:] {
		assert.True(t, at.Equal(results[0]), "all callers must observe the same read_at")
	}
}
