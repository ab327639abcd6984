// Package notify delivers push notifications to registered devices.
// Delivery is best-effort: failures are logged and never propagate into
// the business operation that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

const (
	defaultEndpoint = "https://fcm.googleapis.com/fcm/send"
	// FCM allows up to 1000 registration ids per request; 500 keeps
	// request bodies small
	batchSize = 500
)

// Pusher sends a notification payload to a batch of device tokens and
// reports how many deliveries succeeded plus which tokens are stale.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string) (sent int, stale []string, err error)
}

// FCMClient talks to the Firebase Cloud Messaging HTTP endpoint.
type FCMClient struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

// NewFCMClient builds a client from the FCM_SERVER_KEY environment
// variable. With no key configured every push is a logged no-op.
func NewFCMClient() *FCMClient {
	endpoint := os.Getenv("FCM_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &FCMClient{
		endpoint:  endpoint,
		serverKey: os.Getenv("FCM_SERVER_KEY"),
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type fcmRequest struct {
	RegistrationIDs []string        `json:"registration_ids"`
	Notification    fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

// Push fans the notification out to the given tokens in batches. Tokens the
// provider reports as no longer registered are returned for cleanup.
func (f *FCMClient) Push(ctx context.Context, tokens []string, title, body string) (int, []string, error) {
	if f.serverKey == "" {
		log.Printf("notify: FCM_SERVER_KEY not configured, skipping push of %q", title)
		return 0, nil, nil
	}
	if len(tokens) == 0 {
		return 0, nil, nil
	}

	sent := 0
	var stale []string

	for start := 0; start < len(tokens); start += batchSize {
		end := start + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		resp, err := f.send(ctx, batch, title, body)
		if err != nil {
			return sent, stale, err
		}

		sent += resp.Success
		for i, result := range resp.Results {
			if i >= len(batch) {
				break
			}
			switch result.Error {
			case "NotRegistered", "InvalidRegistration":
				stale = append(stale, batch[i])
			case "":
			default:
				log.Printf("notify: FCM send failed for token: %s", result.Error)
			}
		}
	}

	return sent, stale, nil
}

func (f *FCMClient) send(ctx context.Context, tokens []string, title, body string) (*fcmResponse, error) {
	payload, err := json.Marshal(fcmRequest{
		RegistrationIDs: tokens,
		Notification:    fcmNotification{Title: title, Body: body},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+f.serverKey)

	httpResp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fcm: unexpected status %d", httpResp.StatusCode)
	}

	var resp fcmResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
