package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lotauctiongo/internal/models"
)

// DiscordChannel posts to the bot process, an HTTP sidecar that forwards
// messages to the user's Discord DM. The bot exposes POST {base_url}/notify.
type DiscordChannel struct {
	baseURL string
	client  *http.Client
}

type discordNotifyBody struct {
	DiscordID string `json:"discord_id"`
	Message   string `json:"message"`
	LotID     int64  `json:"lot_id"`
}

func NewDiscordChannel(baseURL string, timeout time.Duration) *DiscordChannel {
	return &DiscordChannel{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (d *DiscordChannel) Name() string { return "discord" }

func (d *DiscordChannel) IsEnabledFor(u models.User) bool { return u.DiscordID != "" }

func (d *DiscordChannel) RecipientID(u models.User) string { return u.DiscordID }

func (d *DiscordChannel) Send(ctx context.Context, recipientID, message string, lotID int64) error {
	payload, err := json.Marshal(discordNotifyBody{
		DiscordID: recipientID,
		Message:   message,
		LotID:     lotID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.baseURL+"/notify", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord bot unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discord bot responded %d", resp.StatusCode)
	}
	return nil
}
