package accounts

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/accountd/internal/common"
)

// InMemoryRepository is a mutex-guarded Repository for tests and local
// development. It enforces the same username uniqueness constraint the
// Postgres schema does, so the allocation race behaves identically.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]*Account)}
}

func matches(a *Account, f Filter) bool {
	if f.ID != nil && a.ID != *f.ID {
		return false
	}
	if f.Username != nil && a.Username != *f.Username {
		return false
	}
	if f.Email != nil && a.Email != *f.Email {
		return false
	}
	if f.Enabled != nil && a.Enabled != *f.Enabled {
		return false
	}
	if f.Locked != nil && a.Locked != *f.Locked {
		return false
	}
	return true
}

func clone(a *Account) *Account {
	c := *a
	c.Roles = append([]string(nil), a.Roles...)
	c.PasswordHash = append([]byte(nil), a.PasswordHash...)
	return &c
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clone(a), nil
}

func (r *InMemoryRepository) FindOneBy(ctx context.Context, f Filter) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if matches(a, f) {
			return clone(a), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *InMemoryRepository) FindManyBy(ctx context.Context, f Filter, order []Order, limit, offset int) ([]*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Account
	for _, a := range r.accounts {
		if matches(a, f) {
			out = append(out, clone(a))
		}
	}

	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j], order) })

	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// less orders by the given criteria, falling back to ID so results are
// deterministic even without an explicit ordering.
func less(a, b *Account, order []Order) bool {
	for _, o := range order {
		var av, bv string
		switch o.Field {
		case OrderByUsername:
			av, bv = a.Username, b.Username
		case OrderByEmail:
			av, bv = a.Email, b.Email
		case OrderByCreatedAt:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				if o.Desc {
					return a.CreatedAt.After(b.CreatedAt)
				}
				return a.CreatedAt.Before(b.CreatedAt)
			}
			continue
		default:
			continue
		}
		if av != bv {
			if o.Desc {
				return av > bv
			}
			return av < bv
		}
	}
	return a.ID < b.ID
}

func (r *InMemoryRepository) Save(ctx context.Context, a *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.accounts {
		if existing.Username == a.Username && id != a.ID {
			return nil, &common.StoreError{Op: "save", Err: common.ErrDuplicateUsername}
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	} else if _, ok := r.accounts[a.ID]; !ok {
		return nil, common.ErrNotFound
	}

	r.accounts[a.ID] = clone(a)
	return a, nil
}

func (r *InMemoryRepository) Remove(ctx context.Context, a *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[a.ID]; !ok {
		return common.ErrNotFound
	}
	delete(r.accounts, a.ID)
	return nil
}
