package smsgw

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client posts text messages to an HTTP SMS gateway. Like the mailer,
// an unconfigured client simulates delivery.
type Client struct {
	baseURL  string
	apiKey   string
	senderID string
	client   *http.Client
}

func New(baseURL, apiKey, senderID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		senderID: senderID,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool { return c.baseURL != "" }

func (c *Client) Send(ctx context.Context, mobile, body string) error {
	if !c.Configured() {
		return nil
	}

	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("senderid", c.senderID)
	form.Set("msgType", "text")
	form.Set("msg", body)
	form.Set("mobile", mobile)
	form.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
