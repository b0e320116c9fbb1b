// Package memory provides process-local repositories for development and
// tests. Data is lost when the process exits.
package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/messagely/messaging-system/internal/core/domain"
)

// Store holds users and messages behind a single lock so that message
// foreign keys can be checked against the user table atomically.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	messages map[int64]*domain.Message
	seq      Sequence
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		messages: make(map[int64]*domain.Message),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Users returns a ports.UserRepository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Messages returns a ports.MessageRepository view of the store.
func (s *Store) Messages() *MessageRepository { return &MessageRepository{s: s} }

// Sequence is an in-process id counter.
type Sequence struct {
	n atomic.Int64
}

func (q *Sequence) Next(context.Context) (int64, error) {
	return q.n.Add(1), nil
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	if u.LastLoginAt != nil {
		at := *u.LastLoginAt
		clone.LastLoginAt = &at
	}
	return &clone
}

func cloneMessage(m *domain.Message) *domain.Message {
	clone := *m
	if m.ReadAt != nil {
		at := *m.ReadAt
		clone.ReadAt = &at
	}
	return &clone
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.s.users[user.Username] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, username string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

type MessageRepository struct {
	s *Store
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[msg.FromUsername]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if _, ok := r.s.users[msg.ToUsername]; !ok {
		return nil, domain.ErrUserNotFound
	}

	id, _ := r.s.seq.Next(ctx)
	stored := cloneMessage(msg)
	stored.ID = id
	stored.ReadAt = nil
	r.s.messages[id] = stored
	return cloneMessage(stored), nil
}

func (r *MessageRepository) FindByID(_ context.Context, id int64) (*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	return cloneMessage(m), nil
}

func (r *MessageRepository) MarkRead(_ context.Context, id int64, at time.Time) (*domain.MessageRead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	if m.ReadAt == nil {
		m.ReadAt = &at
	}
	readAt := *m.ReadAt
	return &domain.MessageRead{ID: id, ReadAt: &readAt}, nil
}

func (r *MessageRepository) ListTo(_ context.Context, username string) ([]*domain.Message, error) {
	return r.list(func(m *domain.Message) bool { return m.ToUsername == username }), nil
}

func (r *MessageRepository) ListFrom(_ context.Context, username string) ([]*domain.Message, error) {
	return r.list(func(m *domain.Message) bool { return m.FromUsername == username }), nil
}

func (r *MessageRepository) list(match func(*domain.Message) bool) []*domain.Message {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Message{}
	for _, m := range r.s.messages {
		if match(m) {
			out = append(out, cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
