package memory

import (
	"context"
	"sync"

	domainuser "stayhub/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	items   map[domainuser.ID]*domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		items:   make(map[domainuser.ID]*domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	clone := *r.items[id]
	return &clone, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domainuser.ErrEmailAlreadyUsed
	}
	clone := *u
	r.items[u.ID] = &clone
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[u.ID]
	if !ok {
		return domainuser.ErrNotFound
	}
	if current.Email != u.Email {
		delete(r.byEmail, current.Email)
		r.byEmail[u.Email] = u.ID
	}
	clone := *u
	r.items[u.ID] = &clone
	return nil
}
