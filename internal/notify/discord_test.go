package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lotauctiongo/internal/models"
)

func TestDiscordChannel_SendOK(t *testing.T) {
	var got discordNotifyBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/notify", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ch := NewDiscordChannel(srv.URL, 5*time.Second)
	err := ch.Send(context.Background(), "discord-123", "hello", 7)
	require.NoError(t, err)
	require.Equal(t, "discord-123", got.DiscordID)
	require.Equal(t, "hello", got.Message)
	require.EqualValues(t, 7, got.LotID)
}

func TestDiscordChannel_SendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ch := NewDiscordChannel(srv.URL, 5*time.Second)
	err := ch.Send(context.Background(), "discord-123", "hello", 7)
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestDiscordChannel_SendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	ch := NewDiscordChannel(srv.URL, time.Second)
	err := ch.Send(context.Background(), "discord-123", "hello", 7)
	require.Error(t, err)
}

func TestDiscordChannel_SendTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() { close(block); srv.Close() }()

	ch := NewDiscordChannel(srv.URL, 50*time.Millisecond)
	start := time.Now()
	err := ch.Send(context.Background(), "discord-123", "hello", 7)
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second)
}

func TestDiscordChannel_EnabledFor(t *testing.T) {
	ch := NewDiscordChannel("http://localhost:5005", time.Second)

	require.True(t, ch.IsEnabledFor(models.User{DiscordID: "abc"}))
	require.False(t, ch.IsEnabledFor(models.User{}))
	require.Equal(t, "abc", ch.RecipientID(models.User{DiscordID: "abc"}))
}
