package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/dbx"
)

// PostgresRepository persists accounts in PostgreSQL. The UNIQUE index on
// username is the final arbiter of the allocation race: a conflicting save
// surfaces as common.ErrDuplicateUsername and the caller re-resolves.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InTx runs fn against a transactional view of the repository, committing on
// success and rolling back on error. A repository already scoped to a
// transaction runs fn on itself.
func (r *PostgresRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return fn(r)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(NewPostgresRepository(tx))
	})
}

const accountColumns = `id, username, email, first_name, last_name, password_hash, salt, secret_key, api_key, roles, locked, enabled, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	a := &Account{}
	var roles []byte

	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName,
		&a.PasswordHash, &a.Salt, &a.SecretKey, &a.APIKey, &roles,
		&a.Locked, &a.Enabled, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(roles, &a.Roles); err != nil {
		return nil, fmt.Errorf("decoding roles: %w", err)
	}
	return a, nil
}

// whereClause renders the filter into a WHERE fragment with positional
// parameters. An empty filter yields an empty fragment.
func whereClause(f Filter) (string, []any) {
	var conds []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if f.ID != nil {
		add("id", *f.ID)
	}
	if f.Username != nil {
		add("username", *f.Username)
	}
	if f.Email != nil {
		add("email", *f.Email)
	}
	if f.Enabled != nil {
		add("enabled", *f.Enabled)
	}
	if f.Locked != nil {
		add("locked", *f.Locked)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause renders sort criteria, ignoring unknown fields so a caller
// mistake cannot smuggle arbitrary SQL into the query.
func orderClause(order []Order) string {
	var parts []string
	for _, o := range order {
		switch o.Field {
		case OrderByCreatedAt, OrderByUsername, OrderByEmail:
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, string(o.Field)+" "+dir)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	return r.FindOneBy(ctx, Filter{ID: &id})
}

func (r *PostgresRepository) FindOneBy(ctx context.Context, f Filter) (*Account, error) {
	where, args := whereClause(f)
	query := `SELECT ` + accountColumns + ` FROM accounts` + where + ` LIMIT 1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, &common.StoreError{Op: "find", Err: err}
	}
	return a, nil
}

func (r *PostgresRepository) FindManyBy(ctx context.Context, f Filter, order []Order, limit, offset int) ([]*Account, error) {
	where, args := whereClause(f)
	query := `SELECT ` + accountColumns + ` FROM accounts` + where + orderClause(order)

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &common.StoreError{Op: "find", Err: err}
	}
	defer rows.Close()

	var out []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, &common.StoreError{Op: "find", Err: err}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &common.StoreError{Op: "find", Err: err}
	}
	return out, nil
}

func (r *PostgresRepository) Save(ctx context.Context, a *Account) (*Account, error) {
	roles, err := json.Marshal(a.Roles)
	if err != nil {
		return nil, &common.StoreError{Op: "save", Err: err}
	}

	if a.ID == "" {
		id := uuid.NewString()

		query :=
			`INSERT INTO accounts (` + accountColumns + `)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 RETURNING id
			 `
		err = r.db.QueryRowContext(ctx, query,
			id, a.Username, a.Email, a.FirstName, a.LastName,
			a.PasswordHash, a.Salt, a.SecretKey, a.APIKey, roles,
			a.Locked, a.Enabled, a.CreatedAt).Scan(&a.ID)
	} else {
		query :=
			`UPDATE accounts
			 SET username = $2, email = $3, first_name = $4, last_name = $5,
			     password_hash = $6, salt = $7, secret_key = $8, api_key = $9,
			     roles = $10, locked = $11, enabled = $12
			 WHERE id = $1
			 `
		var res sql.Result
		res, err = r.db.ExecContext(ctx, query,
			a.ID, a.Username, a.Email, a.FirstName, a.LastName,
			a.PasswordHash, a.Salt, a.SecretKey, a.APIKey, roles,
			a.Locked, a.Enabled)
		if err == nil {
			var n int64
			if n, err = res.RowsAffected(); err == nil && n == 0 {
				return nil, common.ErrNotFound
			}
		}
	}

	if err != nil {
		if isUniqueViolation(err) {
			return nil, &common.StoreError{Op: "save", Err: common.ErrDuplicateUsername}
		}
		return nil, &common.StoreError{Op: "save", Err: err}
	}
	return a, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, a *Account) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, a.ID)
	if err != nil {
		return &common.StoreError{Op: "remove", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &common.StoreError{Op: "remove", Err: err}
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
