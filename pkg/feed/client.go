package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const statusSuccess = "success"

var ErrUnsuccessfulStatus = errors.New("feed returned unsuccessful status")

// StatusError is returned when the endpoint answers with a non-2xx code.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed responded with HTTP %d: %s", e.Code, e.Body)
}

// Envelope is the wire shape of the events endpoint.
type Envelope struct {
	Status string `json:"status"`
	Data   []any  `json:"data"`
}

type Fetcher interface {
	// Fetch returns the raw decoded records of a successful envelope.
	Fetch(ctx context.Context) ([]any, error)
}

type Client struct {
	url          string
	httpClient   *http.Client
	attempts     int
	initialDelay time.Duration
	maxDelay     time.Duration
}

func NewClient(url string, timeout time.Duration, attempts int) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		url:          url,
		httpClient:   newHTTPClient(timeout),
		attempts:     attempts,
		initialDelay: 500 * time.Millisecond,
		maxDelay:     8 * time.Second,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

func (c *Client) Fetch(ctx context.Context) ([]any, error) {
	var envelope Envelope
	err := Retry(ctx, c.attempts, c.initialDelay, c.maxDelay, func() error {
		var err error
		envelope, err = c.fetchOnce(ctx)
		if err != nil {
			log.Debugf("feed fetch from %s failed: %v", c.url, err)
		}
		return err
	})
	if err != nil {
		log.Errorf("Failed to fetch events from %s: %v", c.url, err)
		return nil, err
	}
	if envelope.Status != statusSuccess {
		return nil, fmt.Errorf("%w: %q", ErrUnsuccessfulStatus, envelope.Status)
	}
	log.Debugf("Fetched %d records from %s", len(envelope.Data), c.url)
	return envelope.Data, nil
}

func (c *Client) fetchOnce(ctx context.Context) (Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Envelope{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Envelope{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Envelope{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Envelope{}, fmt.Errorf("decode feed envelope: %w", err)
	}
	return envelope, nil
}

// Retry calls fn up to attempts times, doubling the delay between calls up to max.
// Client errors (4xx) are not retried.
func Retry(ctx context.Context, attempts int, initial, max time.Duration, fn func() error) error {
	delay := initial
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
			if delay > max {
				delay = max
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
			return err
		}
	}
	return err
}
