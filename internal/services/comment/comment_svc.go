package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lotauctiongo/internal/apperrors"
	"lotauctiongo/internal/database/userstore"
	"lotauctiongo/internal/models"
	"lotauctiongo/internal/ratelimit"
)

type ICommentService interface {
	// PostComment validates and stores one comment. bidID and parentID are
	// optional; replies to replies are flattened to the top-level comment
	// with an @mention of the intermediate author prepended to the text.
	PostComment(ctx context.Context, lotID, userID int64, text string, bidID, parentID *int64) (*models.Comment, error)
	// ListLotComments returns a lot's comments, newest first.
	ListLotComments(ctx context.Context, lotID int64) ([]models.Comment, error)
}

type commentService struct {
	db      *sql.DB
	limiter ratelimit.Limiter
}

func NewCommentService(db *sql.DB, limiter ratelimit.Limiter) ICommentService {
	return &commentService{db: db, limiter: limiter}
}

func (svc *commentService) PostComment(ctx context.Context, lotID, userID int64, text string, bidID, parentID *int64) (*models.Comment, error) {
	if _, err := userstore.RequireActor(ctx, svc.db, userID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" && bidID == nil {
		return nil, fmt.Errorf("either text or a bid reference is required: %w", apperrors.ErrValidation)
	}

	var exists bool
	if err := svc.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM lots WHERE id = $1)`, lotID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("lot %d: %w", lotID, apperrors.ErrNotFound)
	}

	if bidID != nil {
		var bidLot int64
		err := svc.db.QueryRowContext(ctx,
			`SELECT lot_id FROM bids WHERE id = $1`, *bidID).Scan(&bidLot)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bid %d: %w", *bidID, apperrors.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		if bidLot != lotID {
			return nil, fmt.Errorf("bid does not belong to this lot: %w", apperrors.ErrValidation)
		}
	}

	if parentID != nil {
		resolved, rewritten, err := svc.resolveParent(ctx, lotID, *parentID, text)
		if err != nil {
			return nil, err
		}
		parentID = &resolved
		text = rewritten
	}

	// Count-then-insert: two racing comments from one user may both pass at
	// the threshold boundary. Accepted overrun, see the limiter docs.
	allowed, err := svc.limiter.Allow(ctx, strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, fmt.Errorf("comment rate check: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("too many comments: %w", apperrors.ErrRateLimited)
	}

	c := &models.Comment{LotID: lotID, UserID: userID, BidID: bidID, ParentID: parentID, Text: text}
	err = svc.db.QueryRowContext(ctx,
		`INSERT INTO comments (lot_id, user_id, bid_id, parent_id, text)
		      VALUES ($1, $2, $3, $4, $5)
		   RETURNING id, created_at`,
		lotID, userID, bidID, parentID, nullable(text),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// resolveParent flattens reply threading to depth 1. Replying to a reply
// reparents the new comment onto the top-level comment and prefixes the text
// with an @mention of whoever wrote the intermediate reply.
func (svc *commentService) resolveParent(ctx context.Context, lotID, parentID int64, text string) (int64, string, error) {
	var (
		pLot      int64
		pAuthor   int64
		pParentID sql.NullInt64
	)
	err := svc.db.QueryRowContext(ctx,
		`SELECT lot_id, user_id, parent_id FROM comments WHERE id = $1`,
		parentID).Scan(&pLot, &pAuthor, &pParentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", fmt.Errorf("parent comment %d: %w", parentID, apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, "", err
	}
	if pLot != lotID {
		return 0, "", fmt.Errorf("parent comment must belong to the same lot: %w", apperrors.ErrValidation)
	}

	if !pParentID.Valid {
		// Top-level comment, use as-is.
		return parentID, text, nil
	}

	author, err := userstore.ByID(ctx, svc.db, pAuthor)
	if err != nil {
		return 0, "", fmt.Errorf("reply author: %w", err)
	}
	return pParentID.Int64, "@" + author.DisplayName() + ": " + text, nil
}

func (svc *commentService) ListLotComments(ctx context.Context, lotID int64) ([]models.Comment, error) {
	rows, err := svc.db.QueryContext(ctx,
		`SELECT id, lot_id, user_id, bid_id, parent_id, coalesce(text, ''), created_at
		   FROM comments WHERE lot_id = $1 ORDER BY created_at DESC`, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.LotID, &c.UserID, &c.BidID, &c.ParentID,
			&c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// nullable maps "" to SQL NULL so bid-only comments store no text.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
