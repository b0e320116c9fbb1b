package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/messagely/messaging-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Username] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, username string, at time.Time) error {
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *stubUserRepo) seed(usernames ...string) {
	for _, name := range usernames {
		r.users[name] = &domain.User{
			Username:  name,
			FirstName: "First-" + name,
			LastName:  "Last-" + name,
			Phone:     "+14155550000",
			JoinAt:    time.Now().UTC(),
		}
	}
}

type stubMessageRepo struct {
	byID      map[int64]*domain.Message
	nextID    int64
	createErr error
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{byID: make(map[int64]*domain.Message)}
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) (*domain.Message, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *m
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubMessageRepo) FindByID(_ context.Context, id int64) (*domain.Message, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMessageRepo) MarkRead(_ context.Context, id int64, at time.Time) (*domain.MessageRead, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	if m.ReadAt == nil {
		m.ReadAt = &at
	}
	return &domain.MessageRead{ID: id, ReadAt: m.ReadAt}, nil
}

func (r *stubMessageRepo) list(match func(*domain.Message) bool) []*domain.Message {
	var out []*domain.Message
	for _, m := range r.byID {
		if match(m) {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubMessageRepo) ListTo(_ context.Context, username string) ([]*domain.Message, error) {
	return r.list(func(m *domain.Message) bool { return m.ToUsername == username }), nil
}

func (r *stubMessageRepo) ListFrom(_ context.Context, username string) ([]*domain.Message, error) {
	return r.list(func(m *domain.Message) bool { return m.FromUsername == username }), nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubRecorder struct {
	mu       sync.Mutex
	recorded []string
}

func (r *stubRecorder) Record(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, username)
}

type stubMetrics struct {
	mu                     sync.Mutex
	loginsAccepted         int
	loginsRejected         int
	registrations          int
	duplicateRegistrations int
	sent                   int
	read                   int
}

func (m *stubMetrics) LoginAttempted(accepted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if accepted {
		m.loginsAccepted++
	} else {
		m.loginsRejected++
	}
}

func (m *stubMetrics) RegistrationAttempted(duplicate bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if duplicate {
		m.duplicateRegistrations++
	} else {
		m.registrations++
	}
}

func (m *stubMetrics) MessageSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
}

func (m *stubMetrics) MessageRead() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.read++
}
