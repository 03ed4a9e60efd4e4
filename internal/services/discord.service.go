package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"inkwell/config"

	logger "github.com/Bparsons0904/goLogger"
)

const discordAPIBaseURL = "https://discord.com/api"

// DiscordService is a thin bot-token client for the handful of Discord REST
// calls the leaderboard needs. With no bot token configured it degrades to a
// no-op that logs what it would have sent.
type DiscordService struct {
	client   *http.Client
	baseURL  string
	botToken string
	log      logger.Logger
}

func NewDiscordService(config config.Config) *DiscordService {
	return &DiscordService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  discordAPIBaseURL,
		botToken: config.DiscordBotToken,
		log:      logger.New("discordService"),
	}
}

// SendMessage posts a message to a channel as the bot. Callers treat this as
// fire-and-forget; failures are returned for logging, never surfaced to the
// reader who triggered the announcement.
func (d *DiscordService) SendMessage(ctx context.Context, channelID, content string) error {
	log := d.log.Function("SendMessage")

	if d.botToken == "" {
		log.Info("no bot token configured, skipping message", "channelID", channelID)
		return nil
	}

	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return log.Err("failed to marshal message payload", err)
	}

	url := fmt.Sprintf("%s/channels/%s/messages", d.baseURL, channelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return log.Err("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bot "+d.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return log.Err("failed to send message", err, "channelID", channelID)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return log.Error("discord rejected message",
			"channelID", channelID, "status", resp.StatusCode)
	}

	return nil
}
