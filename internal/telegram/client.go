// Package telegram provides an optional notifier that posts the finished
// window narrative's headline figures to a Telegram chat.
//
// The client supports MarkdownV2 formatting and retries delivery with a
// linear backoff for resilience against rate limiting and transient network
// failures.
package telegram

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"poltrends/internal/models"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
	names          map[string]string // entity ID -> display name
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration, entities []models.Entity) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	names := make(map[string]string, len(entities))
	for _, e := range entities {
		names[e.ID] = e.Name
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
		names:          names,
	}, nil
}

// SendNarrative posts the window summary message for the given narrative.
func (c *Client) SendNarrative(n models.Narrative) error {
	msg := tgbotapi.NewMessage(c.chatID, c.formatMessage(n))
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage renders the narrative's headline figures as MarkdownV2.
func (c *Client) formatMessage(n models.Narrative) string {
	startStr := escapeMarkdownV2(n.WindowStart.Format(models.DateLayout))
	endStr := escapeMarkdownV2(n.WindowEnd.Format(models.DateLayout))

	message := fmt.Sprintf("📊 *Week in Review* %s → %s\n\n", startStr, endStr)
	message += fmt.Sprintf("🏆 %s dominated the week\n\n", escapeMarkdownV2(c.name(n.TopEntityID)))

	for i, r := range n.Rankings {
		avgStr := escapeMarkdownV2(fmt.Sprintf("%.1f", r.AvgScore))
		peakStr := escapeMarkdownV2(fmt.Sprintf("%.1f", r.PeakScore))
		message += fmt.Sprintf("%d\\. %s: avg %s, peak %s\n",
			i+1, escapeMarkdownV2(c.name(r.EntityID)), avgStr, peakStr)
	}

	return message
}

func (c *Client) name(entityID string) string {
	if n, ok := c.names[entityID]; ok {
		return n
	}
	return entityID
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
