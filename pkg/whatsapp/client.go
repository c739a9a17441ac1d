// Package whatsapp sends OTP codes through the Gupshup WhatsApp template
// message API. When no API key is configured the client degrades to a mock
// that only logs the code, so local development works without credentials.
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.gupshup.io"

type Config struct {
	APIKey     string
	Source     string // sender phone number registered with the provider
	AppName    string
	TemplateID string
	BaseURL    string
}

type Client struct {
	config     Config
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(config Config, log *zap.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log.With(zap.String("client", "whatsapp")),
	}
}

// Mock reports whether the client runs without live credentials.
func (c *Client) Mock() bool {
	return c.config.APIKey == ""
}

// SendOTP delivers a verification code as a template message. The caller
// treats failures as advisory: issuance has already persisted the code.
func (c *Client) SendOTP(ctx context.Context, phoneNumber, code string) error {
	if c.Mock() {
		c.log.Info("WhatsApp mock dispatch",
			zap.String("phone_number", phoneNumber),
			zap.String("code", code),
		)
		return nil
	}

	template, err := json.Marshal(map[string]any{
		"id":     c.config.TemplateID,
		"params": []string{code},
	})
	if err != nil {
		return fmt.Errorf("encode template payload: %w", err)
	}

	params := url.Values{
		"channel":     []string{"whatsapp"},
		"source":      []string{c.config.Source},
		"src.name":    []string{c.config.AppName},
		"destination": []string{strings.TrimPrefix(phoneNumber, "+")},
		"template":    []string{string(template)},
	}

	endpoint := c.config.BaseURL + "/wa/api/v1/template/msg"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("WhatsApp dispatch failed",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return fmt.Errorf("dispatch OTP message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("WhatsApp provider rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("phone_number", phoneNumber),
			zap.ByteString("body", body),
		)
		return fmt.Errorf("message gateway error code: %d", resp.StatusCode)
	}

	return nil
}
