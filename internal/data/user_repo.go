package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/target/todo-byoa/internal/data/pgxutil"
	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

const userColumns = "id, username, password_hash, email, display_name"

// UserRepo is the Postgres credential store.
type UserRepo struct {
	DB     *sql.DB
	hasher ports.PasswordHasher
}

var _ ports.CredentialStore = (*UserRepo)(nil)

// NewUserRepo creates a UserRepo that verifies passwords with hasher.
func NewUserRepo(db *sql.DB, hasher ports.PasswordHasher) *UserRepo {
	return &UserRepo{DB: db, hasher: hasher}
}

// FindByCredentials looks the user up by exact username and checks the password hash.
func (r *UserRepo) FindByCredentials(ctx context.Context, username, password string) (domainauth.User, error) {
	u, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return domainauth.User{}, err
	}
	if !r.hasher.Compare(u.PasswordHash, password) {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (domainauth.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// Upsert writes users in a single transaction; existing rows keep their id and get the new fields.
func (r *UserRepo) Upsert(ctx context.Context, users []domainauth.User) error {
	if len(users) == 0 {
		return nil
	}
	return pgxutil.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		for _, u := range users {
			_, err := tx.Exec(ctx, `
				INSERT INTO users (id, username, password_hash, email, display_name)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET
					username = EXCLUDED.username,
					password_hash = EXCLUDED.password_hash,
					email = EXCLUDED.email,
					display_name = EXCLUDED.display_name`,
				u.ID, u.Username, u.PasswordHash, u.Email, u.DisplayName,
			)
			if err != nil {
				return fmt.Errorf("upsert user %s: %w", u.ID, apperrors.MapDBError(err))
			}
		}
		return nil
	})
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (domainauth.User, error) {
	var out domainauth.User
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.User])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	if err != nil {
		return domainauth.User{}, fmt.Errorf("find user: %w", apperrors.MapDBError(err))
	}
	return out, nil
}
