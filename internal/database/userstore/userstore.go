package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lotauctiongo/internal/apperrors"
	"lotauctiongo/internal/models"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so lookups can run inside
// the bid-placement transaction.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const userColumns = `id, email, first_name, last_name,
       coalesce(discord_id, ''), is_banned, is_staff, created_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName,
		&u.DiscordID, &u.IsBanned, &u.IsStaff, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	return u, err
}

func ByID(ctx context.Context, q Querier, id int64) (models.User, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// RequireActor loads a user and rejects banned accounts; mutating operations
// all start here.
func RequireActor(ctx context.Context, q Querier, id int64) (models.User, error) {
	u, err := ByID(ctx, q, id)
	if err != nil {
		return models.User{}, err
	}
	if u.IsBanned {
		return models.User{}, fmt.Errorf("user %d is banned: %w", id, apperrors.ErrPermission)
	}
	return u, nil
}
