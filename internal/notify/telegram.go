package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram sends notifications through the Telegram Bot API.
type Telegram struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
}

// NewTelegram creates a Telegram sink for the given bot token and chat.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: telegramAPIBase,
		token:   token,
		chatID:  chatID,
	}
}

type telegramSendRequest struct {
	ChatID            string `json:"chat_id"`
	Text              string `json:"text"`
	ParseMode         string `json:"parse_mode"`
	DisableWebPreview bool   `json:"disable_web_page_preview"`
}

type telegramSendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify sends one HTML-formatted message without link previews.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	payload, err := json.Marshal(telegramSendRequest{
		ChatID:            t.chatID,
		Text:              strings.TrimSpace(text),
		ParseMode:         "HTML",
		DisableWebPreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal telegram request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	var result telegramSendResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<10)).Decode(&result); err != nil {
		return fmt.Errorf("decode telegram response (status %d): %w", resp.StatusCode, err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API rejected message (status %d): %s", resp.StatusCode, result.Description)
	}
	return nil
}

// Verify interface compliance at compile time.
var _ Sink = (*Telegram)(nil)
