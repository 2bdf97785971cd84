package notify

import (
	"context"
	"fmt"
	"time"

	"lotauctiongo/internal/models"

	"go.uber.org/zap"
)

// OverbidNotice carries everything needed to tell the previous leader that
// their bid was beaten. All fields are plain values captured before the bid
// transaction committed, so delivery never touches the database.
type OverbidNotice struct {
	Lot        models.Lot
	LotOwner   models.User
	PrevBidder models.User
	PrevAmount int64
	NewBidder  models.User
	NewAmount  int64
}

// Notifier is what the bidding engine depends on.
type Notifier interface {
	// NotifyOutbidSync blocks for at most the delivery timeout (plus a small
	// grace period) and reports whether the message went out. It never
	// returns an error: delivery problems are logged and dropped.
	NotifyOutbidSync(n OverbidNotice) bool
}

type job struct {
	notice OverbidNotice
	done   chan bool
}

// Service fans a notice out to the first channel enabled for the recipient.
// Delivery runs on a dedicated worker goroutine; NotifyOutbidSync bridges
// synchronous request handlers to it with a bounded join.
type Service struct {
	channels []Channel
	timeout  time.Duration
	jobs     chan job
	stop     chan struct{}
}

func NewService(timeout time.Duration, channels ...Channel) *Service {
	s := &Service{
		channels: channels,
		timeout:  timeout,
		jobs:     make(chan job, 64),
		stop:     make(chan struct{}),
	}
	go s.worker()
	return s
}

// Close stops the worker. Pending jobs are abandoned; callers waiting in
// NotifyOutbidSync fall through on their own deadline.
func (s *Service) Close() { close(s.stop) }

func (s *Service) worker() {
	for {
		select {
		case <-s.stop:
			return
		case j := <-s.jobs:
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			ok := s.deliver(ctx, j.notice)
			cancel()
			j.done <- ok
		}
	}
}

func (s *Service) NotifyOutbidSync(n OverbidNotice) bool {
	j := job{notice: n, done: make(chan bool, 1)}

	deadline := time.NewTimer(s.timeout + 2*time.Second)
	defer deadline.Stop()

	select {
	case s.jobs <- j:
	case <-deadline.C:
		zap.L().Error("notify_queue_full",
			zap.Int64("lot_id", n.Lot.ID),
			zap.Int64("recipient_id", n.PrevBidder.ID))
		return false
	}

	select {
	case ok := <-j.done:
		return ok
	case <-deadline.C:
		zap.L().Error("notify_join_timeout",
			zap.Int64("lot_id", n.Lot.ID),
			zap.Int64("recipient_id", n.PrevBidder.ID))
		return false
	}
}

func (s *Service) deliver(ctx context.Context, n OverbidNotice) bool {
	ch := s.enabledChannel(n.PrevBidder)
	if ch == nil {
		// Normal outcome: the user never linked any messenger.
		zap.L().Info("notify_no_channel",
			zap.Int64("recipient_id", n.PrevBidder.ID),
			zap.Int64("lot_id", n.Lot.ID))
		return false
	}

	recipient := ch.RecipientID(n.PrevBidder)
	if recipient == "" {
		zap.L().Warn("notify_no_recipient_id",
			zap.String("channel", ch.Name()),
			zap.Int64("recipient_id", n.PrevBidder.ID))
		return false
	}

	if err := ch.Send(ctx, recipient, formatOverbidMessage(n), n.Lot.ID); err != nil {
		zap.L().Error("notify_delivery_failed",
			zap.String("channel", ch.Name()),
			zap.String("recipient", recipient),
			zap.Int64("lot_id", n.Lot.ID),
			zap.Error(err))
		return false
	}

	zap.L().Info("notify_sent",
		zap.String("channel", ch.Name()),
		zap.String("recipient", recipient),
		zap.Int64("lot_id", n.Lot.ID))
	return true
}

// enabledChannel returns the first channel the user registered; no fallback
// or multi-channel broadcast.
func (s *Service) enabledChannel(u models.User) Channel {
	for _, ch := range s.channels {
		if ch.IsEnabledFor(u) {
			return ch
		}
	}
	return nil
}

func formatOverbidMessage(n OverbidNotice) string {
	lotName := lotDisplayName(n.Lot, n.LotOwner)
	return fmt.Sprintf(
		"Твоя ставка в %d грн на лот %s була перебита!\n\nНова ставка: %d грн\nПоставлена: %s",
		n.PrevAmount, lotName, n.NewAmount, n.NewBidder.DisplayName(),
	)
}

// lotDisplayName prefers the lot's display-name override over the owner's
// account name.
func lotDisplayName(lot models.Lot, owner models.User) string {
	first, last := owner.FirstName, owner.LastName
	if lot.FirstName != nil {
		first = *lot.FirstName
	}
	if lot.LastName != nil {
		last = *lot.LastName
	}
	u := models.User{FirstName: first, LastName: last}
	return u.DisplayName()
}
