package notify

import (
	"context"

	"lotauctiongo/internal/models"
)

// Channel delivers one message to one recipient over some out-of-band
// transport. Implementations decide per user whether they can deliver at all,
// so the bidding side never needs to know what a "discord id" is.
type Channel interface {
	// Name labels the channel in logs.
	Name() string
	// Send delivers message to the channel-specific recipient id.
	Send(ctx context.Context, recipientID, message string, lotID int64) error
	// IsEnabledFor reports whether the user registered this channel.
	IsEnabledFor(u models.User) bool
	// RecipientID returns the channel-specific address of the user.
	RecipientID(u models.User) string
}
