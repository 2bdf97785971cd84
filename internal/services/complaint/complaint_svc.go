package complaint

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"lotauctiongo/internal/apperrors"
	"lotauctiongo/internal/database/userstore"
	"lotauctiongo/internal/models"
)

type IComplaintService interface {
	FileComplaint(ctx context.Context, userID, themeID int64, text string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, callerID int64) ([]models.Complaint, error)
}

type complaintService struct {
	db *sql.DB
}

func NewComplaintService(db *sql.DB) IComplaintService {
	return &complaintService{db: db}
}

func (svc *complaintService) FileComplaint(ctx context.Context, userID, themeID int64, text string) (*models.Complaint, error) {
	if _, err := userstore.RequireActor(ctx, svc.db, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("complaint text is required: %w", apperrors.ErrValidation)
	}

	var exists bool
	if err := svc.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM complaint_themes WHERE id = $1)`, themeID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("complaint theme %d: %w", themeID, apperrors.ErrNotFound)
	}

	c := &models.Complaint{UserID: userID, ThemeID: themeID, Text: text}
	err := svc.db.QueryRowContext(ctx,
		`INSERT INTO complaints (user_id, theme_id, text) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		userID, themeID, text).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert complaint: %w", err)
	}
	return c, nil
}

// ListComplaints is staff-only.
func (svc *complaintService) ListComplaints(ctx context.Context, callerID int64) ([]models.Complaint, error) {
	caller, err := userstore.ByID(ctx, svc.db, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		return nil, fmt.Errorf("complaint listing requires staff: %w", apperrors.ErrPermission)
	}

	rows, err := svc.db.QueryContext(ctx,
		`SELECT id, user_id, theme_id, text, created_at
		   FROM complaints ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Complaint{}
	for rows.Next() {
		var c models.Complaint
		if err := rows.Scan(&c.ID, &c.UserID, &c.ThemeID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
