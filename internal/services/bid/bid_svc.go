package bid

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"lotauctiongo/internal/apperrors"
	"lotauctiongo/internal/database/userstore"
	"lotauctiongo/internal/events"
	"lotauctiongo/internal/models"
	"lotauctiongo/internal/notify"
	"lotauctiongo/internal/ratelimit"
)

// LotInfo is the lot summary embedded in "my bids" rows.
type LotInfo struct {
	ID         int64  `json:"id"`
	LotNumber  int64  `json:"lot_number"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	CurrentBet int64  `json:"current_bet"`
}

type UserBid struct {
	ID        int64     `json:"id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	IsOverbid bool      `json:"is_overbid"`
	LotID     int64     `json:"lot"`
	LotInfo   LotInfo   `json:"lot_info"`
}

type IBidService interface {
	// PlaceBid validates and records one bid; text, when non-empty, becomes a
	// comment attached to the new bid.
	PlaceBid(ctx context.Context, lotID, userID, amount int64, text string) (*models.Bid, error)
	// ListUserBids returns a user's bids with lot summaries; status filters
	// "overbid" or "active".
	ListUserBids(ctx context.Context, userID int64, status string) ([]UserBid, error)
}

type bidService struct {
	db           *sql.DB
	notifier     notify.Notifier
	publisher    events.Publisher
	limiter      ratelimit.Limiter
	minIncrement int64
}

func NewBidService(db *sql.DB, notifier notify.Notifier, publisher events.Publisher,
	limiter ratelimit.Limiter, minIncrement int64) IBidService {
	return &bidService{
		db:           db,
		notifier:     notifier,
		publisher:    publisher,
		limiter:      limiter,
		minIncrement: minIncrement,
	}
}

// prevLeader is the snapshot of a lot's leading bid captured inside the
// placement transaction. Leader = highest amount, ties broken by earliest
// creation time.
type prevLeader struct {
	bid    models.Bid
	bidder models.User
	owner  models.User
}

func (svc *bidService) PlaceBid(ctx context.Context, lotID, userID, amount int64, text string) (*models.Bid, error) {
	actor, err := userstore.RequireActor(ctx, svc.db, userID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("bid amount must be positive: %w", apperrors.ErrValidation)
	}

	text = strings.TrimSpace(text)
	if text != "" && svc.limiter != nil {
		// The attached comment counts against the same anti-spam window as a
		// standalone one, and is checked before any write happens.
		allowed, lerr := svc.limiter.Allow(ctx, strconv.FormatInt(userID, 10))
		if lerr != nil {
			return nil, fmt.Errorf("comment rate check: %w", lerr)
		}
		if !allowed {
			return nil, fmt.Errorf("too many comments: %w", apperrors.ErrRateLimited)
		}
	}

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Row lock serialises concurrent bids on the same lot: last_bet, the
	// overbid flags and the new row move together or not at all.
	var lot models.Lot
	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, first_name, last_name, last_bet
		   FROM lots WHERE id = $1 FOR UPDATE`,
		lotID).Scan(&lot.ID, &lot.UserID, &lot.FirstName, &lot.LastName, &lot.LastBet)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lot %d: %w", lotID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	minRequired := lot.LastBet + svc.minIncrement
	if amount < minRequired {
		return nil, fmt.Errorf("bid must be at least %d, current last bet is %d: %w",
			minRequired, lot.LastBet, apperrors.ErrValidation)
	}

	leader, err := svc.captureLeader(ctx, tx, lot, userID)
	if err != nil {
		return nil, err
	}

	newBid := &models.Bid{LotID: lotID, UserID: userID, Amount: amount}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO bids (lot_id, user_id, amount) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		lotID, userID, amount).Scan(&newBid.ID, &newBid.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert bid: %w", err)
	}

	// Under correct sequential use this touches at most one row, but flipping
	// every other unflagged bid keeps the invariant through races.
	if _, err = tx.ExecContext(ctx,
		`UPDATE bids SET is_overbid = TRUE
		  WHERE lot_id = $1 AND is_overbid = FALSE AND id <> $2`,
		lotID, newBid.ID); err != nil {
		return nil, fmt.Errorf("demote previous bids: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE lots SET last_bet = $2 WHERE id = $1`,
		lotID, amount); err != nil {
		return nil, fmt.Errorf("update last bet: %w", err)
	}

	if text != "" {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO comments (lot_id, user_id, bid_id, text) VALUES ($1, $2, $3, $4)`,
			lotID, userID, newBid.ID, text); err != nil {
			return nil, fmt.Errorf("insert bid comment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if svc.publisher != nil {
		svc.publisher.BidPlaced(ctx, events.BidEvent{
			LotID:   lotID,
			BidID:   newBid.ID,
			UserID:  userID,
			Amount:  amount,
			LastBet: amount,
		})
	}

	// The bid is committed; whatever happens to the notification from here on
	// is logged and forgotten.
	if leader != nil && svc.notifier != nil {
		sent := svc.notifier.NotifyOutbidSync(notify.OverbidNotice{
			Lot:        lot,
			LotOwner:   leader.owner,
			PrevBidder: leader.bidder,
			PrevAmount: leader.bid.Amount,
			NewBidder:  actor,
			NewAmount:  amount,
		})
		zap.L().Debug("overbid_notification",
			zap.Int64("lot_id", lotID),
			zap.Int64("previous_bidder", leader.bidder.ID),
			zap.Bool("sent", sent))
	}

	return newBid, nil
}

// captureLeader snapshots the current leading bid plus the people involved in
// the outbid message. Returns nil when the lot has no bids yet or the leader
// is the caller raising their own bid.
func (svc *bidService) captureLeader(ctx context.Context, tx *sql.Tx, lot models.Lot, bidderID int64) (*prevLeader, error) {
	var b models.Bid
	err := tx.QueryRowContext(ctx,
		`SELECT id, lot_id, user_id, amount, is_overbid, created_at
		   FROM bids WHERE lot_id = $1
		  ORDER BY amount DESC, created_at ASC LIMIT 1`,
		lot.ID).Scan(&b.ID, &b.LotID, &b.UserID, &b.Amount, &b.IsOverbid, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("capture leader: %w", err)
	}
	if b.UserID == bidderID {
		return nil, nil
	}

	bidder, err := userstore.ByID(ctx, tx, b.UserID)
	if err != nil {
		return nil, fmt.Errorf("leader bidder: %w", err)
	}
	owner, err := userstore.ByID(ctx, tx, lot.UserID)
	if err != nil {
		return nil, fmt.Errorf("lot owner: %w", err)
	}
	return &prevLeader{bid: b, bidder: bidder, owner: owner}, nil
}

func (svc *bidService) ListUserBids(ctx context.Context, userID int64, status string) ([]UserBid, error) {
	q := `SELECT b.id, b.amount, b.created_at, b.is_overbid,
	             l.id, coalesce(l.first_name, u.first_name), coalesce(l.last_name, u.last_name), l.last_bet
	        FROM bids b
	        JOIN lots l  ON l.id = b.lot_id
	        JOIN users u ON u.id = l.user_id
	       WHERE b.user_id = $1`
	switch status {
	case "overbid":
		q += " AND b.is_overbid = TRUE"
	case "active":
		q += " AND b.is_overbid = FALSE"
	}
	q += " ORDER BY b.created_at DESC"

	rows, err := svc.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserBid{}
	for rows.Next() {
		var ub UserBid
		if err := rows.Scan(&ub.ID, &ub.Amount, &ub.CreatedAt, &ub.IsOverbid,
			&ub.LotInfo.ID, &ub.LotInfo.FirstName, &ub.LotInfo.LastName,
			&ub.LotInfo.CurrentBet); err != nil {
			return nil, err
		}
		ub.LotID = ub.LotInfo.ID
		ub.LotInfo.LotNumber = ub.LotInfo.ID
		out = append(out, ub)
	}
	return out, rows.Err()
}
