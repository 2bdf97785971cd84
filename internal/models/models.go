package models

import (
	"strings"
	"time"
)

// User is the account row the auction reads. Registration and auth live in
// another service; this side only ever selects.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DiscordID string    `json:"-"`
	IsBanned  bool      `json:"-"`
	IsStaff   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns "First Last" without stray spaces when a part is empty.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Lot is one auctionable profile. LastBet mirrors the amount of the most
// recent accepted bid, 0 when the lot has none.
type Lot struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	FirstName   *string   `json:"first_name,omitempty"`
	LastName    *string   `json:"last_name,omitempty"`
	LastBet     int64     `json:"last_bet"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bid is one monetary offer on a lot. Immutable after insert except for
// IsOverbid, which flips false -> true exactly once when a higher bid lands.
type Bid struct {
	ID        int64     `json:"id"`
	LotID     int64     `json:"lot_id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	IsOverbid bool      `json:"is_overbid"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is scoped to exactly one lot; replies are flattened to depth 1.
type Comment struct {
	ID        int64     `json:"id"`
	LotID     int64     `json:"lot_id"`
	UserID    int64     `json:"user_id"`
	BidID     *int64    `json:"bid_id,omitempty"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type ComplaintTheme struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Complaint struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ThemeID   int64     `json:"theme_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
