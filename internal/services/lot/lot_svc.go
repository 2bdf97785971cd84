package lot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lotauctiongo/internal/apperrors"
	"lotauctiongo/internal/database/userstore"
	"lotauctiongo/internal/models"
)

// ListQuery mirrors the home-page filters: free-text search over the owner's
// name, price/date sorting and limit/offset pagination.
type ListQuery struct {
	Search string
	Sort   string // price_asc | price_desc | created_at_asc | created_at_desc
	Limit  int
	Offset int
}

type LotInput struct {
	Description string
	FirstName   *string
	LastName    *string
}

type ILotService interface {
	GetLot(ctx context.Context, id int64) (*models.Lot, error)
	GetMyLot(ctx context.Context, userID int64) (*models.Lot, error)
	ListLots(ctx context.Context, q ListQuery) ([]models.Lot, int64, error)
	CreateLot(ctx context.Context, userID int64, in LotInput) (*models.Lot, error)
	UpdateLot(ctx context.Context, userID int64, in LotInput) (*models.Lot, error)
	DeleteLot(ctx context.Context, actorID, lotID int64) error
}

type lotService struct {
	db *sql.DB
}

func NewLotService(db *sql.DB) ILotService {
	return &lotService{db: db}
}

const lotColumns = `id, user_id, description, first_name, last_name, last_bet, created_at`

func scanLot(row *sql.Row) (*models.Lot, error) {
	l := &models.Lot{}
	err := row.Scan(&l.ID, &l.UserID, &l.Description,
		&l.FirstName, &l.LastName, &l.LastBet, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lot: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (svc *lotService) GetLot(ctx context.Context, id int64) (*models.Lot, error) {
	row := svc.db.QueryRowContext(ctx,
		`SELECT `+lotColumns+` FROM lots WHERE id = $1`, id)
	return scanLot(row)
}

func (svc *lotService) GetMyLot(ctx context.Context, userID int64) (*models.Lot, error) {
	row := svc.db.QueryRowContext(ctx,
		`SELECT `+lotColumns+` FROM lots WHERE user_id = $1`, userID)
	return scanLot(row)
}

func (svc *lotService) ListLots(ctx context.Context, q ListQuery) ([]models.Lot, int64, error) {
	if q.Limit <= 0 {
		q.Limit = 12
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	where := ""
	args := []any{}
	if q.Search != "" {
		where = ` WHERE (u.first_name ILIKE $1 OR u.last_name ILIKE $1)`
		args = append(args, "%"+q.Search+"%")
	}

	var order string
	switch q.Sort {
	case "price_asc":
		order = "l.last_bet ASC"
	case "price_desc":
		order = "l.last_bet DESC"
	case "created_at_asc":
		order = "l.created_at ASC"
	default:
		order = "l.created_at DESC"
	}

	var total int64
	countQ := `SELECT count(*) FROM lots l JOIN users u ON u.id = l.user_id` + where
	if err := svc.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQ := fmt.Sprintf(
		`SELECT l.id, l.user_id, l.description, l.first_name, l.last_name, l.last_bet, l.created_at
		   FROM lots l JOIN users u ON u.id = l.user_id%s
		  ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, order, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := svc.db.QueryContext(ctx, listQ, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]models.Lot, 0, q.Limit)
	for rows.Next() {
		var l models.Lot
		if err := rows.Scan(&l.ID, &l.UserID, &l.Description,
			&l.FirstName, &l.LastName, &l.LastBet, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

func (svc *lotService) CreateLot(ctx context.Context, userID int64, in LotInput) (*models.Lot, error) {
	if _, err := userstore.RequireActor(ctx, svc.db, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("description is required: %w", apperrors.ErrValidation)
	}

	var exists bool
	err := svc.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM lots WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("only one lot per user: %w", apperrors.ErrValidation)
	}

	l := &models.Lot{UserID: userID, Description: in.Description,
		FirstName: in.FirstName, LastName: in.LastName}
	err = svc.db.QueryRowContext(ctx,
		`INSERT INTO lots (user_id, description, first_name, last_name)
		      VALUES ($1, $2, $3, $4)
		   RETURNING id, last_bet, created_at`,
		userID, in.Description, in.FirstName, in.LastName,
	).Scan(&l.ID, &l.LastBet, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}
	return l, nil
}

func (svc *lotService) UpdateLot(ctx context.Context, userID int64, in LotInput) (*models.Lot, error) {
	if _, err := userstore.RequireActor(ctx, svc.db, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("description is required: %w", apperrors.ErrValidation)
	}

	row := svc.db.QueryRowContext(ctx,
		`UPDATE lots SET description = $2, first_name = $3, last_name = $4
		  WHERE user_id = $1
		 RETURNING `+lotColumns,
		userID, in.Description, in.FirstName, in.LastName)
	return scanLot(row)
}

// DeleteLot is reserved for staff; the database cascades to bids and comments.
func (svc *lotService) DeleteLot(ctx context.Context, actorID, lotID int64) error {
	actor, err := userstore.ByID(ctx, svc.db, actorID)
	if err != nil {
		return err
	}
	if !actor.IsStaff {
		return fmt.Errorf("lot deletion requires staff: %w", apperrors.ErrPermission)
	}

	res, err := svc.db.ExecContext(ctx, `DELETE FROM lots WHERE id = $1`, lotID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("lot %d: %w", lotID, apperrors.ErrNotFound)
	}
	return nil
}
