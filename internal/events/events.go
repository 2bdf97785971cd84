package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BidEvent is what lot watchers receive over the live feed.
type BidEvent struct {
	Event   string `json:"event"` // always "bid"
	LotID   int64  `json:"lot_id"`
	BidID   int64  `json:"bid_id"`
	UserID  int64  `json:"user_id"`
	Amount  int64  `json:"amount"`
	LastBet int64  `json:"last_bet"`
}

// Publisher fans bid events out to every instance's WebSocket hub.
type Publisher interface {
	BidPlaced(ctx context.Context, ev BidEvent)
}

// ChannelFor returns the pub/sub channel carrying one lot's events.
func ChannelFor(lotID int64) string {
	return fmt.Sprintf("lot:%d:events", lotID)
}

type redisPublisher struct {
	rdc *redis.Client
}

func NewRedisPublisher(rdc *redis.Client) Publisher {
	return &redisPublisher{rdc: rdc}
}

// BidPlaced is best effort: the feed is a convenience view, a dropped event
// never affects the committed bid.
func (p *redisPublisher) BidPlaced(ctx context.Context, ev BidEvent) {
	ev.Event = "bid"
	payload, err := json.Marshal(ev)
	if err != nil {
		zap.L().Warn("events.marshal", zap.Error(err))
		return
	}
	if err := p.rdc.Publish(ctx, ChannelFor(ev.LotID), payload).Err(); err != nil {
		zap.L().Warn("events.publish", zap.Int64("lot_id", ev.LotID), zap.Error(err))
	}
}
