package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// ErrBreakerOpen reports that the provider's circuit is open and the
// call was not attempted.
var ErrBreakerOpen = errors.New("provider circuit open")

var (
	breakers   sync.Map // map[string]*gobreaker.CircuitBreaker
	httpClient = &http.Client{Timeout: 30 * time.Second}
)

func breakerFor(providerID string) *gobreaker.CircuitBreaker {
	if cb, ok := breakers.Load(providerID); ok {
		return cb.(*gobreaker.CircuitBreaker)
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        providerID,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	actual, _ := breakers.LoadOrStore(providerID, cb)
	return actual.(*gobreaker.CircuitBreaker)
}

type wireResponse struct {
	StatusCode int
	Body       []byte
}

// doJSON runs one outbound JSON call through the provider's circuit
// breaker and records the outcome in the health tracker. body may be
// nil for GET requests.
func doJSON(ctx context.Context, providerID, method, url string, headers map[string]string, body interface{}) (*wireResponse, error) {
	call := func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			b, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("marshal request: %w", err)
			}
			reader = bytes.NewReader(b)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			// 5xx trips the breaker; 4xx is the caller's problem
			return nil, fmt.Errorf("bad status code: %d, body: %s", resp.StatusCode, data)
		}
		return &wireResponse{StatusCode: resp.StatusCode, Body: data}, nil
	}

	out, err := breakerFor(providerID).Execute(call)
	recordResult(providerID, err == nil)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrBreakerOpen
	}
	if err != nil {
		return nil, err
	}
	return out.(*wireResponse), nil
}
