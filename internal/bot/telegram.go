package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trade-gate/internal/logger"
)

// Client wraps the handful of Telegram Bot API methods the service needs:
// long-poll updates in, one text reply out.
type Client struct {
	baseURL     string
	pollTimeout int
	client      *http.Client
}

func NewClient(token string, pollTimeout int) *Client {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Client{
		baseURL:     "https://api.telegram.org/bot" + token,
		pollTimeout: pollTimeout,
		// Long poll holds the connection open for pollTimeout seconds.
		client: &http.Client{Timeout: time.Duration(pollTimeout+10) * time.Second},
	}
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
}

type Chat struct {
	ID int64 `json:"id"`
}

func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	q := url.Values{
		"offset":          {strconv.FormatInt(offset, 10)},
		"timeout":         {strconv.Itoa(c.pollTimeout)},
		"allowed_updates": {`["message"]`},
	}
	var updates []Update
	if err := c.doJSON(ctx, "GET", "/getUpdates?"+q.Encode(), nil, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	body := map[string]interface{}{"chat_id": chatID, "text": text}
	return c.doJSON(ctx, "POST", "/sendMessage", body, nil)
}

// Handler consumes one inbound text and produces the reply.
type Handler interface {
	Advance(ctx context.Context, userID int64, text string) string
}

// Poll runs the long-poll loop until ctx is canceled. Updates are handled
// one at a time, in order; a send failure never rolls back the state
// transition that produced the reply.
func (c *Client) Poll(ctx context.Context, h Handler) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := c.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("telegram poll failed", "err", err)
			time.Sleep(3 * time.Second)
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			reply := h.Advance(ctx, u.Message.Chat.ID, u.Message.Text)
			if reply == "" {
				continue
			}
			if err := c.SendMessage(ctx, u.Message.Chat.ID, reply); err != nil {
				logger.Warn("telegram send failed", "chat", u.Message.Chat.ID, "err", err)
			}
		}
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram api %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("telegram api %s: status %d: %.200s", path, resp.StatusCode, data)
	}

	var envelope struct {
		OK          bool            `json:"ok"`
		Result      json.RawMessage `json:"result"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram api %s: %s", path, envelope.Description)
	}
	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}
