package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/user-registration/internal/domain/entity"
	repo "github.com/oksasatya/user-registration/internal/domain/repository"
)

// memoryStore is a transactional in-memory repo.Store: a failed tx restores
// the snapshot taken when it began.
type memoryStore struct {
	mu            sync.Mutex
	users         map[string]*entity.User
	confirmations map[string]*entity.Confirmation
	txCount       int
}

type storeSnapshot struct {
	users         map[string]*entity.User
	confirmations map[string]*entity.Confirmation
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:         make(map[string]*entity.User),
		confirmations: make(map[string]*entity.Confirmation),
	}
}

func (m *memoryStore) WithTx(_ context.Context, fn func(tx repo.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txCount++
	snapshot := m.snapshot()
	if err := fn(memoryTx{store: m}); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *memoryStore) snapshot() storeSnapshot {
	users := make(map[string]*entity.User, len(m.users))
	for id, u := range m.users {
		cp := *u
		users[id] = &cp
	}
	confs := make(map[string]*entity.Confirmation, len(m.confirmations))
	for id, c := range m.confirmations {
		cp := *c
		confs[id] = &cp
	}
	return storeSnapshot{users: users, confirmations: confs}
}

func (m *memoryStore) restore(s storeSnapshot) {
	m.users = s.users
	m.confirmations = s.confirmations
}

func (m *memoryStore) userByEmail(email string) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (m *memoryStore) confirmationFor(userID string) *entity.Confirmation {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.confirmations {
		if c.UserID == userID {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (m *memoryStore) counts() (users, confirmations int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), len(m.confirmations)
}

type memoryTx struct {
	store *memoryStore
}

func (t memoryTx) Users() repo.UserRepository                 { return memoryUsers{t.store} }
func (t memoryTx) Confirmations() repo.ConfirmationRepository { return memoryConfirmations{t.store} }

type memoryUsers struct{ m *memoryStore }

func (r memoryUsers) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repo.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.m.users[u.ID] = &cp
	return nil
}

func (r memoryUsers) GetByEmailIgnoreCase(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmailIgnoreCase(ctx, email)
	return err == nil, nil
}

func (r memoryUsers) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	r.m.users[u.ID] = &cp
	return nil
}

type memoryConfirmations struct{ m *memoryStore }

func (r memoryConfirmations) Create(_ context.Context, c *entity.Confirmation) error {
	for _, existing := range r.m.confirmations {
		if existing.Token == c.Token || existing.UserID == c.UserID {
			return repo.ErrDuplicate
		}
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	cp.User = nil
	r.m.confirmations[c.ID] = &cp
	return nil
}

func (r memoryConfirmations) withOwner(c *entity.Confirmation) *entity.Confirmation {
	cp := *c
	if u, ok := r.m.users[c.UserID]; ok {
		owner := *u
		cp.User = &owner
	}
	return &cp
}

func (r memoryConfirmations) GetByToken(_ context.Context, token string) (*entity.Confirmation, error) {
	for _, c := range r.m.confirmations {
		if c.Token == token {
			return r.withOwner(c), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memoryConfirmations) GetByUserID(_ context.Context, userID string) (*entity.Confirmation, error) {
	for _, c := range r.m.confirmations {
		if c.UserID == userID {
			return r.withOwner(c), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memoryConfirmations) Delete(_ context.Context, id string) error {
	if _, ok := r.m.confirmations[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.m.confirmations, id)
	return nil
}
