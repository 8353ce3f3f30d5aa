package accounts

import "context"

// Filter selects accounts by attribute equality. Nil fields are ignored.
// A typed struct keeps queries compile-time safe while covering the same
// lookups a dynamic attribute map would.
type Filter struct {
	ID       *string
	Username *string
	Email    *string
	Enabled  *bool
	Locked   *bool
}

// OrderField names a sortable account attribute.
type OrderField string

const (
	OrderByCreatedAt OrderField = "created_at"
	OrderByUsername  OrderField = "username"
	OrderByEmail     OrderField = "email"
)

// Order describes one sort criterion for FindManyBy.
type Order struct {
	Field OrderField
	Desc  bool
}

// Repository is the persistence contract the account service requires.
//
// FindByID and FindOneBy return common.ErrNotFound when no account matches.
// Save assigns an ID on first save and returns common.ErrDuplicateUsername
// (wrapped in a StoreError) when the store's uniqueness constraint rejects
// the username. Remove returns common.ErrNotFound for an absent account.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Account, error)
	FindOneBy(ctx context.Context, f Filter) (*Account, error)
	FindManyBy(ctx context.Context, f Filter, order []Order, limit, offset int) ([]*Account, error)
	Save(ctx context.Context, a *Account) (*Account, error)
	Remove(ctx context.Context, a *Account) error
}

// TxRepository is implemented by stores that can scope a sequence of
// repository operations to a single transaction. fn receives a transactional
// view; its error decides commit or rollback.
type TxRepository interface {
	Repository
	InTx(ctx context.Context, fn func(Repository) error) error
}

// String returns a pointer to s, for building filters inline.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building filters inline.
func Bool(b bool) *bool { return &b }
