// Package sms implements the SMSProvider port against an HTTP JSON gateway.
// The gateway contract is deliberately small: POST /messages to submit,
// GET /messages/{id} to read the delivery status.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kopikurir/internal/core/ports"
)

// ErrGatewayRejected is the unwrap target for non-2xx gateway responses.
var ErrGatewayRejected = errors.New("sms gateway rejected request")

const defaultRequestTimeout = 10 * time.Second

// HTTPGateway is an SMSProvider over a plain HTTP JSON API.
type HTTPGateway struct {
	baseURL string
	token   string
	sender  string
	client  *http.Client
}

// NewHTTPGateway creates a gateway client for the given base URL.
// token goes into the Authorization header; sender is the originating
// identity the provider stamps on outgoing messages.
func NewHTTPGateway(baseURL, token, sender string) (*HTTPGateway, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("sms gateway base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse sms gateway base URL: %w", err)
	}

	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		sender:  sender,
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}, nil
}

type sendRequest struct {
	To     string `json:"to"`
	Body   string `json:"body"`
	Sender string `json:"sender,omitempty"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Send submits a message and returns the provider-assigned message id.
func (g *HTTPGateway) Send(ctx context.Context, phone, body string) (ports.SMSSendResult, error) {
	payload, err := json.Marshal(sendRequest{To: phone, Body: body, Sender: g.sender})
	if err != nil {
		return ports.SMSSendResult{}, fmt.Errorf("encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return ports.SMSSendResult{}, fmt.Errorf("build send request: %w", err)
	}
	g.setHeaders(req)

	var resp sendResponse
	if err := g.do(req, &resp); err != nil {
		return ports.SMSSendResult{}, err
	}
	if resp.MessageID == "" {
		return ports.SMSSendResult{}, fmt.Errorf("%w: response carries no message id", ErrGatewayRejected)
	}

	return ports.SMSSendResult{ProviderMessageID: resp.MessageID}, nil
}

// Status reads the provider's delivery status for a submitted message,
// normalized to lower case.
func (g *HTTPGateway) Status(ctx context.Context, providerMessageID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/messages/"+url.PathEscape(providerMessageID), nil)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}
	g.setHeaders(req)

	var resp statusResponse
	if err := g.do(req, &resp); err != nil {
		return "", err
	}

	return strings.ToLower(strings.TrimSpace(resp.Status)), nil
}

func (g *HTTPGateway) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
}

func (g *HTTPGateway) do(req *http.Request, out any) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("call sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s", ErrGatewayRejected, resp.Status,
			strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode sms gateway response: %w", err)
	}
	return nil
}
