package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const apiBase = "https://api.telegram.org"

// Client talks to the Telegram Bot API over plain HTTP.
type Client struct {
	Token      string
	HTTPClient *http.Client
	baseURL    string
}

func NewClient(token string) *Client {
	return &Client{
		Token:      token,
		HTTPClient: http.DefaultClient,
		baseURL:    apiBase,
	}
}

// NewClientWithBase is used by tests to point the client at a stub server.
func NewClientWithBase(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %v", method, err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("telegram %s: decoding response: %v", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s: %s", method, apiResp.Description)
	}
	if out != nil && apiResp.Result != nil {
		return json.Unmarshal(apiResp.Result, out)
	}
	return nil
}

// SendMessage sends Markdown-formatted text, optionally with an inline
// keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboard) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// SendPhoto sends a photo by URL or file id with an optional caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo, caption string, keyboard *InlineKeyboard) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"photo":      photo,
		"parse_mode": "Markdown",
	}
	if caption != "" {
		payload["caption"] = caption
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendPhoto", payload, nil)
}

// AnswerCallbackQuery acknowledges a button press so the client stops
// showing its spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackID,
	}, nil)
}

// GetFile resolves a file id to a downloadable file path.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var file File
	err := c.call(ctx, "getFile", map[string]interface{}{"file_id": fileID}, &file)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FileURL builds the download URL for a path returned by GetFile.
func (c *Client) FileURL(filePath string) string {
	return fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.Token, filePath)
}

// DownloadFile fetches the raw bytes of an uploaded file.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FileURL(filePath), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("telegram file download: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// SetWebhook registers the webhook URL with Telegram, attaching the secret
// token Telegram will echo back on every update.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	payload := map[string]interface{}{"url": url}
	if secret != "" {
		payload["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", payload, nil)
}
